// Where: internal/architecture/layering_test.go
// What: Layer dependency guard tests for internal packages.
// Why: Keep domain -> infra -> plugin -> command a one-way dependency chain.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru/esbuild-layers/internal/"

// forbiddenLayers lists, per top-level layer, the layers it must not import.
var forbiddenLayers = map[string][]string{
	"domain": {"infra", "plugin", "command"},
	"infra":  {"plugin", "command"},
	"plugin": {"command"},
}

func TestLayeringRules(t *testing.T) {
	t.Parallel()

	violations := []string{}
	walkSources(t, parser.ImportsOnly, func(rel string, _ *token.FileSet, file *ast.File) {
		sourceLayer := topLayer(rel)
		for _, imp := range file.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"")
			if violatesRule(sourceLayer, topLayerFromImport(importPath)) {
				violations = append(violations, rel+" -> "+importPath)
			}
		}
	})

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("layering rule violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestViolatesRule(t *testing.T) {
	tests := []struct {
		source, target string
		want           bool
	}{
		{"domain", "infra", true},
		{"domain", "domain", false},
		{"infra", "plugin", true},
		{"infra", "domain", false},
		{"plugin", "command", true},
		{"plugin", "infra", false},
		{"command", "plugin", false},
		{"meta", "infra", false},
	}
	for _, tc := range tests {
		if got := violatesRule(tc.source, tc.target); got != tc.want {
			t.Errorf("violatesRule(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
		}
	}
}

// walkSources parses every non-test Go file under internal/ and hands it to
// visit with its path relative to internal/.
func walkSources(t *testing.T, mode parser.Mode, visit func(rel string, fset *token.FileSet, file *ast.File)) {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		visit(filepath.ToSlash(rel), fset, file)
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, ".."))
}

func topLayer(relPath string) string {
	first, _, _ := strings.Cut(relPath, "/")
	return strings.TrimSpace(first)
}

func topLayerFromImport(importPath string) string {
	rest, ok := strings.CutPrefix(importPath, internalImportPrefix)
	if !ok {
		return ""
	}
	return topLayer(rest)
}

func violatesRule(sourceLayer, importLayer string) bool {
	for _, forbidden := range forbiddenLayers[sourceLayer] {
		if forbidden == importLayer {
			return true
		}
	}
	return false
}
