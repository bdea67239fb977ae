// Where: internal/plugin/transform.go
// What: Compiled template rewrite for installed, retained layers.
// Why: Functions must reference the versioned layer resource the stack keeps.
package plugin

import (
	"context"
	"errors"
	"os"

	"github.com/poruru/esbuild-layers/internal/infra/cfn"
	"github.com/poruru/esbuild-layers/internal/infra/state"
)

// TransformLayerResources rewrites tpl in place for the layers installed
// by this run (or, in a fresh process, by the last persisted run).
func (p *Plugin) TransformLayerResources(tpl map[string]any) (cfn.Result, error) {
	installed, err := p.installedLayers()
	if err != nil {
		return cfn.Result{}, err
	}
	return cfn.TransformLayerResources(tpl, p.project.Layers, installed.Has, p.log), nil
}

// TransformTemplate loads the template at TemplateLocation, rewrites it and
// saves it back when something changed. A missing local template is not
// an error; the hook may fire before the framework writes it.
func (p *Plugin) TransformTemplate(ctx context.Context) (cfn.Result, error) {
	location := p.TemplateLocation()
	store, err := p.openStore(ctx, location, p.opts.S3)
	if err != nil {
		return cfn.Result{}, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		if _, local := store.(cfn.FileStore); local && errors.Is(err, os.ErrNotExist) {
			p.log.Verbosef("No compiled template at %s", location)
			return cfn.Result{}, nil
		}
		return cfn.Result{}, err
	}

	result, err := p.TransformLayerResources(doc.Body)
	if err != nil {
		return cfn.Result{}, err
	}
	if !result.Changed() {
		return result, nil
	}
	if err := store.Save(ctx, doc); err != nil {
		return result, err
	}
	p.log.Verbosef("Exported %d layer(s), upgraded %d reference(s) in %s",
		len(result.ExportedLayers), len(result.UpgradedLayerReferences), store.Location())
	return result, nil
}

// InstalledLayerNames returns the names the rewrite will trust.
func (p *Plugin) InstalledLayerNames() ([]string, error) {
	installed, err := p.installedLayers()
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, l := range p.project.Layers {
		if installed.Has(l.Key) {
			names = append(names, l.Key)
		}
	}
	return names, nil
}

// installedLayers returns this process's install result once InstallLayers
// ran, and the persisted one otherwise.
func (p *Plugin) installedLayers() (state.InstalledLayers, error) {
	if p.installedRan {
		return p.installed, nil
	}
	loaded, err := p.state.Load()
	if err != nil {
		return state.InstalledLayers{}, err
	}
	if loaded.Service != "" && p.project.Service != "" && loaded.Service != p.project.Service {
		p.log.Warnf("Ignoring install state recorded for service %s", loaded.Service)
		return state.InstalledLayers{Service: p.project.Service, Layers: []string{}}, nil
	}
	return loaded, nil
}
