// Where: internal/infra/bundle/analyzer.go
// What: Bundle analysis of layer entry points.
// Why: Let the bundler's module graph decide which packages a layer imports.
package bundle

import (
	"context"
	"fmt"

	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

// Bundler builds entry points for the node platform with node_modules
// marked external and returns the build manifest.
type Bundler interface {
	Bundle(ctx context.Context, entries []string) (Metafile, error)
}

// Analyzer turns entry points into external module names.
type Analyzer struct {
	Bundler    Bundler
	InstallDir string
	Log        ui.Logger
}

// ExternalModules bundles entries and returns the imported package
// specifiers. An empty entry list never reaches the bundler.
func (a Analyzer) ExternalModules(ctx context.Context, entries []string) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if a.Bundler == nil {
		return nil, fmt.Errorf("bundler is nil")
	}
	meta, err := a.Bundler.Bundle(ctx, entries)
	if err != nil {
		return nil, err
	}
	modules := ExternalsFromMetafile(meta, a.InstallDir)
	if a.Log != nil {
		a.Log.Debugf("Bundle of %d entries imports %d external modules", len(entries), len(modules))
	}
	return modules, nil
}
