// Where: internal/infra/npm/manifest.go
// What: package.json reading for the root project and installed packages.
// Why: Expose declared versions and peer metadata without leaking JSON shapes.
package npm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/esbuild-layers/internal/infra/fileops"
)

// ManifestFileName is the npm manifest file name.
const ManifestFileName = "package.json"

// ErrMissingVersion is returned when an installed manifest has no version field.
var ErrMissingVersion = errors.New("manifest is missing version")

// PeerMeta is one entry of `peerDependenciesMeta`.
type PeerMeta struct {
	Optional bool `json:"optional,omitempty"`
}

// Manifest is the subset of package.json this tool reads.
type Manifest struct {
	Name                 string              `json:"name,omitempty"`
	Version              string              `json:"version,omitempty"`
	Dependencies         map[string]string   `json:"dependencies,omitempty"`
	DevDependencies      map[string]string   `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string   `json:"peerDependencies,omitempty"`
	PeerDependenciesMeta map[string]PeerMeta `json:"peerDependenciesMeta,omitempty"`
	Resolutions          map[string]string   `json:"resolutions,omitempty"`
}

// ReadManifest parses the package.json at path.
func ReadManifest(path string) (Manifest, error) {
	var manifest Manifest
	if err := fileops.ReadJSON(path, &manifest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
		}
		return Manifest{}, err
	}
	return manifest, nil
}

// InstalledManifestPath locates the manifest of an installed package,
// splitting scoped names into their directory components.
func InstalledManifestPath(nodeModules, name string) string {
	parts := append([]string{nodeModules}, strings.Split(name, "/")...)
	parts = append(parts, ManifestFileName)
	return filepath.Join(parts...)
}

// ReadInstalledManifest parses node_modules/<name>/package.json.
func ReadInstalledManifest(nodeModules, name string) (Manifest, error) {
	return ReadManifest(InstalledManifestPath(nodeModules, name))
}

// InstalledVersion returns the version of an installed package, failing
// when the manifest cannot be read or carries no version.
func InstalledVersion(nodeModules, name string) (string, error) {
	manifest, err := ReadInstalledManifest(nodeModules, name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(manifest.Version) == "" {
		return "", fmt.Errorf("%s: %w", name, ErrMissingVersion)
	}
	return manifest.Version, nil
}

// VersionOf looks a package up in dependencies, then devDependencies.
func (m Manifest) VersionOf(name string) (string, bool) {
	if version := strings.TrimSpace(m.Dependencies[name]); version != "" {
		return version, true
	}
	if version := strings.TrimSpace(m.DevDependencies[name]); version != "" {
		return version, true
	}
	return "", false
}

// PeerOptional reports whether a peer is flagged optional in peerDependenciesMeta.
func (m Manifest) PeerOptional(name string) bool {
	return m.PeerDependenciesMeta[name].Optional
}
