// Where: internal/domain/layer/layer.go
// What: Layer and function declarations read from serverless.yml.
// Why: Share one immutable model between resolution, install, and template rewrite.
package layer

import (
	"path/filepath"

	"github.com/poruru/esbuild-layers/internal/domain/value"
)

// NodeDirName is the folder inside a layer that the Node.js runtime mounts.
const NodeDirName = "nodejs"

// Layer is a declared Lambda layer. Key is the map key under `layers:`.
type Layer struct {
	Key         string
	Name        string
	Path        string
	Description string
	Retain      bool
}

// RefName is the logical id functions use to reference the layer,
// e.g. `shared` -> `SharedLambdaLayer`.
func (l Layer) RefName() string {
	return value.UpperFirst(l.Key) + "LambdaLayer"
}

// NodeDir is the install directory for the layer's dependencies.
func (l Layer) NodeDir() string {
	return filepath.Join(l.Path, NodeDirName)
}

// Function is a declared function. Entry holds the raw `entry` value,
// which may be a string, a list, or malformed input.
type Function struct {
	Key         string
	Handler     string
	Image       string
	Layers      []string
	Entry       any
	ShouldLayer bool
}

// IsHandler reports whether the function is packaged from source
// (as opposed to a container image).
func (f Function) IsHandler() bool {
	return f.Handler != ""
}

// UsesLayer reports whether the function references the given logical id.
func (f Function) UsesLayer(refName string) bool {
	for _, ref := range f.Layers {
		if ref == refName {
			return true
		}
	}
	return false
}
