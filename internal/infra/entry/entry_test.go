package entry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("export const handler = () => {};\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func abs(t *testing.T, root, rel string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return path
}

func TestFindEntriesSpecifiedInvalidInput(t *testing.T) {
	root := t.TempDir()
	for _, raw := range []any{[]any{}, 123, nil, map[string]any{"a": "b"}, []any{1, 2}} {
		if got := FindEntriesSpecified(root, raw); len(got) != 0 {
			t.Fatalf("FindEntriesSpecified(%v) = %v, want empty", raw, got)
		}
	}
}

func TestFindEntriesSpecifiedMatchesSourceExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/jobs/sync.ts", "src/jobs/sync.test.snap", "src/workers/a/index.js", "src/workers/b/index.mjs")

	got := FindEntriesSpecified(root, "src/jobs/sync.default")
	if !reflect.DeepEqual(got, []string{abs(t, root, "src/jobs/sync.ts")}) {
		t.Fatalf("string entry = %v", got)
	}

	got = FindEntriesSpecified(root, []any{"src/workers/**/index.handler", "src/missing.default", "src/jobs/sync.run"})
	want := []string{
		abs(t, root, "src/workers/a/index.js"),
		abs(t, root, "src/workers/b/index.mjs"),
		abs(t, root, "src/jobs/sync.ts"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list entry = %v, want %v", got, want)
	}
}

func TestHandlerEntryResolution(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "examples/foo.js", "examples/foobar.js", "examples/foo.txt")
	locator := Locator{Root: root}

	for _, handler := range []string{"examples/foo.default", "examples/foo.someExport"} {
		got, err := locator.HandlerEntry(handler)
		if err != nil {
			t.Fatalf("%s: %v", handler, err)
		}
		if got != abs(t, root, "examples/foo.js") {
			t.Fatalf("%s resolved to %q", handler, got)
		}
	}
}

func TestHandlerEntryNoMatchIsSilent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/other.ts")
	locator := Locator{Root: root}

	for _, handler := range []string{"src/missing.handler", "nowhere/fn.handler"} {
		got, err := locator.HandlerEntry(handler)
		if err != nil || got != "" {
			t.Fatalf("%s: got %q, %v", handler, got, err)
		}
	}
}

func TestHandlerEntryAmbiguous(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/api.ts", "src/api.js")

	_, err := Locator{Root: root}.HandlerEntry("src/api.handler")
	if !errors.Is(err, ErrAmbiguousHandler) {
		t.Fatalf("expected ErrAmbiguousHandler, got %v", err)
	}
	if !strings.Contains(err.Error(), "api.js, api.ts") {
		t.Fatalf("error should list candidates: %v", err)
	}

	got, err := Locator{Root: root, BackupFileType: "ts"}.HandlerEntry("src/api.handler")
	if err != nil {
		t.Fatalf("backup file type: %v", err)
	}
	if got != abs(t, root, "src/api.ts") {
		t.Fatalf("backup resolved to %q", got)
	}

	got, err = Locator{Root: root}.HandlerEntry("src/api.js.handler")
	if err != nil || got != abs(t, root, "src/api.js") {
		t.Fatalf("explicit extension resolved to %q, %v", got, err)
	}
}

func TestResolvedEntriesFiltersFunctions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/a.ts", "src/b.ts", "src/c.ts", "src/override.ts")
	const ref = "SharedLambdaLayer"

	functions := []layer.Function{
		{Key: "a", Handler: "src/a.handler", Layers: []string{ref}, ShouldLayer: true},
		{Key: "aAgain", Handler: "src/a.other", Layers: []string{ref}, ShouldLayer: true},
		{Key: "optOut", Handler: "src/b.handler", Layers: []string{ref}, ShouldLayer: false},
		{Key: "otherLayer", Handler: "src/c.handler", Layers: []string{"OtherLambdaLayer"}, ShouldLayer: true},
		{Key: "image", Image: "repo:latest", Layers: []string{ref}, ShouldLayer: true},
		{Key: "override", Handler: "src/c.handler", Entry: "src/override.default", Layers: []string{ref}, ShouldLayer: true},
		{Key: "badOverride", Handler: "src/b.handler", Entry: 42, Layers: []string{ref}, ShouldLayer: true},
	}

	got, err := Locator{Root: root}.ResolvedEntries(functions, ref)
	if err != nil {
		t.Fatalf("ResolvedEntries: %v", err)
	}
	want := []string{abs(t, root, "src/a.ts"), abs(t, root, "src/override.ts"), abs(t, root, "src/b.ts")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
}

func TestResolvedEntriesAmbiguousHandlerFails(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/a.ts", "src/a.js")
	functions := []layer.Function{{Key: "a", Handler: "src/a.handler", Layers: []string{"XLambdaLayer"}, ShouldLayer: true}}

	_, err := Locator{Root: root}.ResolvedEntries(functions, "XLambdaLayer")
	if !errors.Is(err, ErrAmbiguousHandler) {
		t.Fatalf("expected ErrAmbiguousHandler, got %v", err)
	}
}
