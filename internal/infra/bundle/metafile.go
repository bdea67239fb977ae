// Where: internal/infra/bundle/metafile.go
// What: esbuild metafile structure and external import extraction.
// Why: Recover the flat set of imported packages from a build manifest.
package bundle

import (
	"path/filepath"
	"sort"
	"strings"
)

// Metafile represents the esbuild metafile JSON structure.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput represents an input file in the metafile.
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
}

// MetafileImport represents an import in the metafile. Original holds the
// specifier text as written in source when it differs from Path.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetafileOutput represents an output file in the metafile.
type MetafileOutput struct {
	Bytes      int              `json:"bytes"`
	Imports    []MetafileImport `json:"imports"`
	EntryPoint string           `json:"entryPoint,omitempty"`
}

// ExternalsFromMetafile collects every output-level import path plus every
// input-level import that lives under installDir (preferring the original
// specifier), drops built-ins and relative paths, and returns a sorted set.
func ExternalsFromMetafile(meta Metafile, installDir string) []string {
	seen := map[string]struct{}{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || isLocalPath(name) || IsBuiltin(name) {
			return
		}
		seen[name] = struct{}{}
	}

	for _, key := range sortedOutputKeys(meta.Outputs) {
		for _, imp := range meta.Outputs[key].Imports {
			add(imp.Path)
		}
	}
	for _, key := range sortedInputKeys(meta.Inputs) {
		for _, imp := range meta.Inputs[key].Imports {
			if !imp.External && !underInstallDir(imp.Path, installDir) {
				continue
			}
			if imp.Original != "" {
				add(imp.Original)
				continue
			}
			if name, ok := packagePathFromInstallDir(imp.Path, installDir); ok {
				add(name)
				continue
			}
			add(imp.Path)
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isLocalPath(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") || filepath.IsAbs(name)
}

func installMarker(installDir string) string {
	dir := filepath.ToSlash(strings.Trim(installDir, "/\\"))
	if dir == "" {
		dir = "node_modules"
	}
	return dir + "/"
}

func underInstallDir(path, installDir string) bool {
	slashed := filepath.ToSlash(path)
	marker := installMarker(installDir)
	return strings.HasPrefix(slashed, marker) || strings.Contains(slashed, "/"+marker)
}

// packagePathFromInstallDir turns `.../node_modules/pkg/lib/x.js` into `pkg/lib/x.js`.
func packagePathFromInstallDir(path, installDir string) (string, bool) {
	slashed := filepath.ToSlash(path)
	marker := installMarker(installDir)
	idx := strings.LastIndex(slashed, marker)
	if idx < 0 {
		return "", false
	}
	rest := slashed[idx+len(marker):]
	return rest, rest != ""
}

func sortedOutputKeys(m map[string]MetafileOutput) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedInputKeys(m map[string]MetafileInput) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
