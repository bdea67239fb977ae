package install

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestCleanupDeletesExcludedPaths(t *testing.T) {
	nodeDir := filepath.Join(t.TempDir(), "nodejs")
	writeTree(t, nodeDir, map[string]string{
		"node_modules/axios/README.md":          "# axios",
		"node_modules/axios/index.js":           "module.exports = {}",
		"node_modules/axios/test/unit.js":       "test()",
		"node_modules/axios/test/fixtures/a.js": "a()",
		"node_modules/lodash/CHANGELOG.md":      "changes",
	})

	deleted, err := Cleaner{}.Cleanup(nodeDir, []string{"**/*.md", "**/test", "**/test/**", "[invalid"}, false)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted = %d, want 3", deleted)
	}
	if !exists(filepath.Join(nodeDir, "node_modules/axios/index.js")) {
		t.Fatal("index.js must be kept")
	}
	for _, rel := range []string{"node_modules/axios/README.md", "node_modules/lodash/CHANGELOG.md", "node_modules/axios/test"} {
		if exists(filepath.Join(nodeDir, rel)) {
			t.Fatalf("%s should be deleted", rel)
		}
	}
}

func TestCleanupMissingDirectory(t *testing.T) {
	deleted, err := Cleaner{}.Cleanup(filepath.Join(t.TempDir(), "missing"), []string{"**/*.md"}, true)
	if err != nil || deleted != 0 {
		t.Fatalf("Cleanup = %d, %v", deleted, err)
	}
}

func TestCleanupMinifies(t *testing.T) {
	nodeDir := filepath.Join(t.TempDir(), "nodejs")
	script := "// helper comment\nfunction add(first, second) {\n  return first + second;\n}\nmodule.exports = { add };\n"
	writeTree(t, nodeDir, map[string]string{
		"node_modules/calc/index.js":     script,
		"node_modules/calc/package.json": "{\n  \"name\": \"calc\",\n  \"version\": \"1.0.0\"\n}\n",
		"node_modules/calc/broken.js":    "function (",
	})

	if _, err := (Cleaner{}).Cleanup(nodeDir, nil, true); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	minified, _ := os.ReadFile(filepath.Join(nodeDir, "node_modules/calc/index.js"))
	if len(minified) >= len(script) || strings.Contains(string(minified), "helper comment") {
		t.Fatalf("script not minified: %q", minified)
	}
	compacted, _ := os.ReadFile(filepath.Join(nodeDir, "node_modules/calc/package.json"))
	if string(compacted) != `{"name":"calc","version":"1.0.0"}` {
		t.Fatalf("json not compacted: %q", compacted)
	}
	broken, _ := os.ReadFile(filepath.Join(nodeDir, "node_modules/calc/broken.js"))
	if string(broken) != "function (" {
		t.Fatalf("unparseable script must be left alone: %q", broken)
	}
}
