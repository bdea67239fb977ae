// Where: internal/infra/install/installer.go
// What: Layer materialization: local manifest, lock copy, package manager add.
// Why: Install exactly the resolved closure into <layer>/nodejs, isolating per-layer failures.
package install

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/infra/fileops"
	"github.com/poruru/esbuild-layers/internal/infra/npm"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

// LayerManifest is the package.json written into a layer's install dir.
type LayerManifest struct {
	Dependencies *npm.Record       `json:"dependencies"`
	Resolutions  map[string]string `json:"resolutions"`
}

// Installer drives one package manager for every layer of a run.
type Installer struct {
	Kind   packager.Kind
	Runner packager.Runner
	// LockDir holds the root lock file copied into each layer.
	LockDir     string
	Resolutions map[string]string
	AddTemplate string
	GOOS        string
	Log         ui.Logger
}

// InstallLayer materializes record into the layer's node directory. It
// returns false without side effects for an empty record, and false after
// logging the cause when any step fails.
func (i Installer) InstallLayer(ctx context.Context, l layer.Layer, record *npm.Record) bool {
	if record.Len() == 0 {
		return false
	}
	if err := i.install(ctx, l, record); err != nil {
		i.logger().Errorf("Layer %s: %v", l.Key, err)
		return false
	}
	return true
}

func (i Installer) install(ctx context.Context, l layer.Layer, record *npm.Record) error {
	log := i.logger()
	nodeDir := l.NodeDir()
	if err := fileops.EnsureDir(nodeDir); err != nil {
		return fmt.Errorf("create %s: %w", nodeDir, err)
	}

	lockFile := i.Kind.LockFile()
	if err := fileops.CopyFile(filepath.Join(i.LockDir, lockFile), filepath.Join(nodeDir, lockFile)); err != nil {
		log.Infof("Unable to copy %s across, this will cause version inaccuracies", lockFile)
		log.Verbosef("%v", err)
	}

	resolutions := i.Resolutions
	if resolutions == nil {
		resolutions = map[string]string{}
	}
	manifest := LayerManifest{Dependencies: record, Resolutions: resolutions}
	if err := fileops.WriteJSON(filepath.Join(nodeDir, npm.ManifestFileName), manifest); err != nil {
		return fmt.Errorf("write layer manifest: %w", err)
	}

	command, err := packager.BuildAddCommand(i.Kind, record.Specs(), i.goos(), i.AddTemplate)
	if err != nil {
		return err
	}
	log.Infof("Layer = %s", l.Key)
	log.Infof("Running command %s", command)
	if err := i.run(ctx, nodeDir, command); err != nil {
		return err
	}

	if autoclean, ok := packager.AutocleanCommand(i.Kind); ok {
		if err := i.run(ctx, nodeDir, autoclean); err != nil {
			return err
		}
	}
	return nil
}

func (i Installer) run(ctx context.Context, dir, command string) error {
	output, err := i.Runner.RunShell(ctx, dir, command)
	if text := strings.TrimSpace(string(output)); text != "" {
		i.logger().Debugf("%s", text)
	}
	return err
}

func (i Installer) goos() string {
	if i.GOOS != "" {
		return i.GOOS
	}
	return runtime.GOOS
}

func (i Installer) logger() ui.Logger {
	if i.Log == nil {
		return ui.Discard()
	}
	return i.Log
}
