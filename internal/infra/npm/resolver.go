// Where: internal/infra/npm/resolver.go
// What: Dependency closure resolution for a layer's external modules.
// Why: Turn bundle-discovered imports into an installable name -> version record.
package npm

import (
	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

// Resolver resolves external modules against the root manifest and the
// manifests installed under NodeModules.
type Resolver struct {
	Root        Manifest
	NodeModules string
	Log         ui.Logger
}

// Resolve builds the closure for modules. Every module is normalized and
// looked up in the root manifest first, so direct imports always keep their
// declared range; the peer dependencies of the included packages are then
// added from their installed manifests.
// Packages or peers that cannot be resolved are skipped with a diagnostic.
func (r Resolver) Resolve(modules []string) *Record {
	log := r.logger()
	record := NewRecord()
	for _, module := range modules {
		name := FixModuleName(module)
		if name == "" || record.Has(name) {
			continue
		}
		version, ok := r.Root.VersionOf(name)
		if !ok {
			log.Verbosef("Skipping %s as it is not defined in the package.json file", name)
			continue
		}
		record.Add(name, version)
	}
	r.addPeers(record, record.Names())
	return record
}

// addPeers walks breadth-first from seeds through peer dependencies.
// Record membership stops cycles.
func (r Resolver) addPeers(record *Record, seeds []string) {
	log := r.logger()
	queue := append([]string{}, seeds...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		manifest, err := ReadInstalledManifest(r.NodeModules, current)
		if err != nil {
			log.Warnf("Unable to check for peer deps for package %s as an error occurred", current)
			log.Verbosef("%v", err)
			continue
		}
		for _, peer := range sortedKeys(manifest.PeerDependencies) {
			if manifest.PeerOptional(peer) {
				log.Verbosef("Skipping peer dep %s of package %s as it is optional", peer, current)
				continue
			}
			if record.Has(peer) {
				log.Verbosef("Skipping peer dep %s of package %s as it is already added", peer, current)
				continue
			}
			version, err := InstalledVersion(r.NodeModules, peer)
			if err != nil {
				log.Warnf("Unable to add peer dep %s for package %s as an error occurred", peer, current)
				log.Verbosef("%v", err)
				continue
			}
			record.Add(peer, version)
			log.Debugf("Added peer dep %s@%s required by %s", peer, version, current)
			queue = append(queue, peer)
		}
	}
}

func (r Resolver) logger() ui.Logger {
	if r.Log == nil {
		return ui.Discard()
	}
	return r.Log
}
