// Where: internal/infra/entry/specified.go
// What: Explicit `entry` override matching.
// Why: Let functions name their source files when the handler path is not enough.
package entry

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/poruru/esbuild-layers/internal/domain/value"
)

// SourceExtensions are the file extensions treated as bundleable source.
var SourceExtensions = []string{"ts", "tsx", "mts", "cts", "js", "jsx", "mjs", "cjs"}

// FindEntriesSpecified resolves explicit entry overrides relative to root.
// A string is treated as a one-element list; any other non-list input
// yields nothing. Each entry's trailing `.segment` (e.g. `.default` or an
// export name) is replaced by a source-extension wildcard. Entries with no
// match contribute nothing.
func FindEntriesSpecified(root string, raw any) []string {
	entries, ok := value.AsStringList(raw)
	if !ok {
		return []string{}
	}
	out := []string{}
	seen := map[string]struct{}{}
	for _, entry := range entries {
		for _, match := range matchEntry(root, entry) {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	return out
}

func matchEntry(root, entry string) []string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}
	pattern := filepath.ToSlash(entry)
	if !filepath.IsAbs(entry) {
		pattern = filepath.ToSlash(filepath.Join(root, entry))
	}
	pattern = stripExportSuffix(pattern) + ".{" + strings.Join(SourceExtensions, ",") + "}"

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		if abs, err := filepath.Abs(match); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

// stripExportSuffix drops the last `.segment` of the final path element.
func stripExportSuffix(pattern string) string {
	dir, file := splitSlash(pattern)
	if idx := strings.LastIndex(file, "."); idx > 0 {
		file = file[:idx]
	}
	if dir == "" {
		return file
	}
	return dir + "/" + file
}

func splitSlash(pattern string) (string, string) {
	idx := strings.LastIndex(pattern, "/")
	if idx < 0 {
		return "", pattern
	}
	return pattern[:idx], pattern[idx+1:]
}
