// Where: internal/infra/state/installed_store.go
// What: Persistence of the layers installed by the last install run.
// Why: Hook events run as separate processes; the template rewrite only trusts layers a prior install committed.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/poruru/esbuild-layers/internal/infra/fileops"
	"github.com/poruru/esbuild-layers/internal/meta"
)

// InstalledLayers is the persisted install result.
type InstalledLayers struct {
	Service string   `json:"service,omitempty"`
	Layers  []string `json:"layers"`
}

// Has reports whether the named layer was installed.
func (s InstalledLayers) Has(name string) bool {
	for _, layer := range s.Layers {
		if layer == name {
			return true
		}
	}
	return false
}

// Store reads and writes the installed layer set.
type Store interface {
	Load() (InstalledLayers, error)
	Save(InstalledLayers) error
	Remove() error
}

type fileStore struct {
	path string
}

// NewFileStore returns a Store at <root>/.serverless/esbuild-layers.json.
func NewFileStore(root string) Store {
	return fileStore{path: Path(root)}
}

// Path returns the state file location for a project root.
func Path(root string) string {
	return filepath.Join(root, meta.ServerlessDir, meta.StateFileName)
}

func (s fileStore) Load() (InstalledLayers, error) {
	var loaded InstalledLayers
	if err := fileops.ReadJSON(s.path, &loaded); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return InstalledLayers{Layers: []string{}}, nil
		}
		return InstalledLayers{}, fmt.Errorf("read install state: %w", err)
	}
	if loaded.Layers == nil {
		loaded.Layers = []string{}
	}
	return loaded, nil
}

func (s fileStore) Save(installed InstalledLayers) error {
	layers := append([]string{}, installed.Layers...)
	sort.Strings(layers)
	installed.Layers = layers
	if err := fileops.WriteJSON(s.path, installed); err != nil {
		return fmt.Errorf("write install state: %w", err)
	}
	return nil
}

func (s fileStore) Remove() error {
	if err := fileops.RemovePath(s.path); err != nil {
		return fmt.Errorf("remove install state: %w", err)
	}
	return nil
}
