// Where: internal/plugin/install.go
// What: Layer installation: closure resolution, materialization, cleanup.
// Why: Process layers sequentially so one failure never blocks the rest.
package plugin

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/infra/bundle"
	"github.com/poruru/esbuild-layers/internal/infra/entry"
	"github.com/poruru/esbuild-layers/internal/infra/install"
	"github.com/poruru/esbuild-layers/internal/infra/npm"
	"github.com/poruru/esbuild-layers/internal/infra/state"
)

// InstallResult lists the layers installed by a run, in declaration order.
type InstallResult struct {
	InstalledLayers []layer.Layer
}

// InstallLayers installs every declared layer, cleans the successful ones
// and persists the installed set for later hooks.
func (p *Plugin) InstallLayers(ctx context.Context) (InstallResult, error) {
	result := InstallResult{InstalledLayers: []layer.Layer{}}
	// A cancelled run must not leave the previous run's layers trusted.
	if err := p.state.Remove(); err != nil {
		return result, fmt.Errorf("reset install state: %w", err)
	}
	names := []string{}
	for _, l := range p.project.Layers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !p.InstallLayer(ctx, l) {
			continue
		}
		p.cleanup(l)
		result.InstalledLayers = append(result.InstalledLayers, l)
		names = append(names, l.Key)
	}
	p.installed = state.InstalledLayers{Service: p.project.Service, Layers: names}
	p.installedRan = true

	count := len(result.InstalledLayers)
	suffix := "s"
	if count == 1 {
		suffix = ""
	}
	p.log.Infof("Installed %d layer%s", count, suffix)

	if err := p.state.Save(p.installed); err != nil {
		return result, err
	}
	return result, nil
}

// InstallLayer resolves and installs one layer. Any failure is logged and
// reported as false.
func (p *Plugin) InstallLayer(ctx context.Context, l layer.Layer) bool {
	record, root, err := p.fetchModules(ctx, l)
	if err != nil {
		p.log.Errorf("Layer %s: %v", l.Key, err)
		return false
	}
	installer := install.Installer{
		Kind:        p.packager,
		Runner:      p.runner,
		LockDir:     p.project.Root,
		Resolutions: root.Resolutions,
		AddTemplate: p.config.Commands.Add,
		GOOS:        p.opts.GOOS,
		Log:         p.log,
	}
	return installer.InstallLayer(ctx, l, record)
}

// FetchModulesForLayer returns the name -> version closure of the packages
// imported by the functions attached to the named layer.
func (p *Plugin) FetchModulesForLayer(ctx context.Context, name string) (*npm.Record, error) {
	l, ok := p.findLayer(name)
	if !ok {
		return nil, fmt.Errorf("unknown layer %q", name)
	}
	record, _, err := p.fetchModules(ctx, l)
	return record, err
}

func (p *Plugin) fetchModules(ctx context.Context, l layer.Layer) (*npm.Record, npm.Manifest, error) {
	locator := entry.Locator{
		Root:           p.project.Root,
		BackupFileType: p.config.BackupFileType,
		Log:            p.log,
	}
	entries, err := locator.ResolvedEntries(p.project.Functions, l.RefName())
	if err != nil {
		return nil, npm.Manifest{}, err
	}
	p.log.Debugf("Layer %s entries: %v", l.Key, entries)

	analyzer := bundle.Analyzer{
		Bundler:    p.bundler,
		InstallDir: p.config.NodeModulesDir,
		Log:        p.log,
	}
	modules, err := analyzer.ExternalModules(ctx, entries)
	if err != nil {
		return nil, npm.Manifest{}, fmt.Errorf("analyze entries: %w", err)
	}
	if len(modules) == 0 {
		return npm.NewRecord(), npm.Manifest{}, nil
	}

	root := p.project.Root
	manifest, err := npm.ReadManifest(filepath.Join(p.config.ManifestDir(root), npm.ManifestFileName))
	if err != nil {
		return nil, npm.Manifest{}, err
	}
	resolver := npm.Resolver{
		Root:        manifest,
		NodeModules: p.config.NodeModules(root),
		Log:         p.log,
	}
	return resolver.Resolve(modules), manifest, nil
}

func (p *Plugin) cleanup(l layer.Layer) {
	if !p.config.Clean {
		return
	}
	cleaner := install.Cleaner{Log: p.log}
	if _, err := cleaner.Cleanup(l.NodeDir(), p.project.Package.CleanupExcludes(), p.config.Minify); err != nil {
		p.log.Warnf("Cleanup of layer %s failed: %v", l.Key, err)
	}
}
