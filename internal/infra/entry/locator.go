// Where: internal/infra/entry/locator.go
// What: Entry point discovery for the functions attached to a layer.
// Why: Feed the bundler exactly the sources whose imports the layer must satisfy.
package entry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

// ErrAmbiguousHandler is returned when several source files match a
// handler and no backup file type selects one of them.
var ErrAmbiguousHandler = errors.New("handler matches multiple source files")

// Locator resolves function handlers and entry overrides to source paths.
type Locator struct {
	// Root is the service directory handlers are relative to.
	Root string
	// BackupFileType picks `<base>.<type>` when a handler is ambiguous.
	BackupFileType string
	Log            ui.Logger
}

// ResolvedEntries returns the deduplicated absolute entry paths of every
// handler function that opts into layering and references refName.
func (l Locator) ResolvedEntries(functions []layer.Function, refName string) ([]string, error) {
	log := l.logger()
	var out []string
	seen := map[string]struct{}{}
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, fn := range functions {
		if !fn.IsHandler() {
			log.Warnf("Skipping function %s: functions with an image are not supported", fn.Key)
			continue
		}
		if !fn.ShouldLayer || !fn.UsesLayer(refName) {
			continue
		}
		specified := FindEntriesSpecified(l.Root, fn.Entry)
		if len(specified) > 0 {
			for _, path := range specified {
				add(path)
			}
			continue
		}
		path, err := l.HandlerEntry(fn.Handler)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Key, err)
		}
		if path == "" {
			log.Verbosef("No source file found for handler %s of function %s", fn.Handler, fn.Key)
			continue
		}
		add(path)
	}
	return out, nil
}

// HandlerEntry maps a handler like `src/api/users.handler` to its source
// file. It returns "" when nothing matches.
func (l Locator) HandlerEntry(handler string) (string, error) {
	folder, base, explicitExt := splitHandler(handler)
	if base == "" {
		return "", nil
	}
	dir := filepath.Join(l.Root, filepath.FromSlash(folder))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("list handler folder %s: %w", dir, err)
	}

	var candidates []string
	for _, item := range entries {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		stem, ext := splitExt(name)
		if stem != base || !isSourceExt(ext) {
			continue
		}
		if explicitExt != "" && ext != explicitExt {
			continue
		}
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	var chosen string
	switch {
	case len(candidates) == 0:
		return "", nil
	case len(candidates) == 1:
		chosen = candidates[0]
	default:
		backup := strings.TrimPrefix(strings.TrimSpace(l.BackupFileType), ".")
		if backup == "" || !contains(candidates, base+"."+backup) {
			return "", fmt.Errorf("%w: %s (%s); set backupFileType to choose one",
				ErrAmbiguousHandler, handler, strings.Join(candidates, ", "))
		}
		chosen = base + "." + backup
	}
	return filepath.Abs(filepath.Join(dir, chosen))
}

// splitHandler splits `dir/sub/file[.ext].export` into folder, base name,
// and the optional explicit source extension.
func splitHandler(handler string) (string, string, string) {
	handler = filepath.ToSlash(strings.TrimSpace(handler))
	folder, file := splitSlash(handler)
	parts := strings.Split(file, ".")
	base := parts[0]
	explicitExt := ""
	if len(parts) > 2 && isSourceExt(parts[1]) {
		explicitExt = parts[1]
	}
	return folder, base, explicitExt
}

func splitExt(name string) (string, string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

func isSourceExt(ext string) bool {
	return contains(SourceExtensions, ext)
}

func contains(list []string, item string) bool {
	for _, candidate := range list {
		if candidate == item {
			return true
		}
	}
	return false
}

func (l Locator) logger() ui.Logger {
	if l.Log == nil {
		return ui.Discard()
	}
	return l.Log
}
