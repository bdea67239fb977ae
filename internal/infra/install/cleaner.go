// Where: internal/infra/install/cleaner.go
// What: Post-install cleanup of a layer's node directory.
// Why: Drop excluded files and optionally minify what remains to keep layers small.
package install

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/poruru/esbuild-layers/internal/infra/fileops"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

// Cleaner deletes excluded paths and minifies installed sources.
type Cleaner struct {
	Log ui.Logger
}

// Cleanup removes every path under nodeDir matching excludes and, when
// minify is set, minifies .js and compacts .json files in place. Deletion
// errors are swallowed. It returns the number of deleted paths.
func (c Cleaner) Cleanup(nodeDir string, excludes []string, minify bool) (int, error) {
	log := c.logger()
	rules := make([]string, 0, len(excludes))
	for _, rule := range excludes {
		rules = append(rules, filepath.Join(nodeDir, rule))
	}
	log.Infof("Cleaning %s", strings.Join(rules, ", "))

	deleted := c.deleteExcluded(nodeDir, excludes)

	if minify && fileops.DirExists(nodeDir) {
		if err := c.minifyTree(nodeDir); err != nil {
			return deleted, err
		}
	}
	log.Infof("Cleaned %d files at %s", deleted, nodeDir)
	return deleted, nil
}

func (c Cleaner) deleteExcluded(nodeDir string, excludes []string) int {
	log := c.logger()
	fsys := os.DirFS(nodeDir)
	matches := map[string]struct{}{}
	for _, rule := range excludes {
		pattern := strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(rule)), "./")
		if pattern == "" {
			continue
		}
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			log.Verbosef("Skipping exclude %s: %v", rule, err)
			continue
		}
		for _, match := range found {
			matches[match] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(matches))
	for match := range matches {
		ordered = append(ordered, match)
	}
	// Parents sort before children, so a removed directory takes its
	// matched descendants with it and they are not counted twice.
	sort.Strings(ordered)
	deleted := 0
	for _, match := range ordered {
		path := filepath.Join(nodeDir, filepath.FromSlash(match))
		if _, err := os.Lstat(path); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			log.Verbosef("Unable to delete %s: %v", path, err)
			continue
		}
		log.Debugf("Deleted %s", path)
		deleted++
	}
	return deleted
}

func (c Cleaner) minifyTree(root string) error {
	log := c.logger()
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		switch filepath.Ext(path) {
		case ".js", ".cjs", ".mjs":
			if err := MinifyScript(path); err != nil {
				log.Verbosef("Skipping minification of %s: %v", path, err)
			}
		case ".json":
			if err := CompactJSON(path); err != nil {
				log.Verbosef("Skipping compaction of %s: %v", path, err)
			}
		}
		return nil
	})
}

// MinifyScript rewrites a JavaScript file with whitespace, identifier and
// syntax minification applied.
func MinifyScript(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result := api.Transform(string(source), api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LegalComments:     api.LegalCommentsInline,
		Sourcefile:        filepath.Base(path),
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return fmt.Errorf("minify: %s", result.Errors[0].Text)
	}
	return os.WriteFile(path, result.Code, info.Mode().Perm())
}

// CompactJSON strips insignificant whitespace from a JSON file.
func CompactJSON(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, source); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
}

func (c Cleaner) logger() ui.Logger {
	if c.Log == nil {
		return ui.Discard()
	}
	return c.Log
}
