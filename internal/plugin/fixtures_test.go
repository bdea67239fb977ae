package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/poruru/esbuild-layers/internal/infra/bundle"
	"github.com/poruru/esbuild-layers/internal/infra/config"
)

const fixtureServerless = `
service: orders
package:
  patterns:
    - "!**/*.md"
layers:
  shared:
    path: layers/shared
    retain: true
  broken:
    path: layers/broken
  empty:
    path: layers/empty
functions:
  api:
    handler: src/api.handler
    layers:
      - Ref: SharedLambdaLayer
  worker:
    handler: src/worker.default
    layers:
      - Ref: SharedLambdaLayer
  bad:
    handler: src/bad.handler
    layers:
      - Ref: BrokenLambdaLayer
`

// fakeBundler reports the externals registered for each entry file name.
type fakeBundler struct {
	imports map[string][]string
	calls   [][]string
}

func (f *fakeBundler) Bundle(_ context.Context, entries []string) (bundle.Metafile, error) {
	f.calls = append(f.calls, entries)
	var imports []bundle.MetafileImport
	for _, entry := range entries {
		for _, module := range f.imports[filepath.Base(entry)] {
			imports = append(imports, bundle.MetafileImport{Path: module, Kind: "require-call", External: true})
		}
	}
	return bundle.Metafile{
		Outputs: map[string]bundle.MetafileOutput{"out/bundle.js": {Imports: imports}},
	}, nil
}

type fakeRunner struct {
	commands []string
	dirs     []string
	onRun    func(dir string)
}

func (f *fakeRunner) RunShell(_ context.Context, dir, command string) ([]byte, error) {
	f.commands = append(f.commands, command)
	f.dirs = append(f.dirs, dir)
	if f.onRun != nil {
		f.onRun(dir)
	}
	return nil, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeJSON(t *testing.T, path string, value any) {
	t.Helper()
	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	writeFile(t, path, string(payload))
}

// newFixtureProject lays out a service with a root manifest, installed
// packages and handler sources.
func newFixtureProject(t *testing.T) config.Project {
	t.Helper()
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), map[string]any{
		"dependencies":    map[string]string{"axios": "^1.6.0", "react-dom": "^18.2.0"},
		"devDependencies": map[string]string{"lodash": "4.17.21"},
		"resolutions":     map[string]string{"follow-redirects": "1.15.6"},
	})
	writeFile(t, filepath.Join(root, "package-lock.json"), "{}")
	writeJSON(t, filepath.Join(root, "node_modules", "axios", "package.json"), map[string]any{"version": "1.6.2"})
	writeJSON(t, filepath.Join(root, "node_modules", "react-dom", "package.json"), map[string]any{
		"version":          "18.2.0",
		"peerDependencies": map[string]string{"react": "^18.2.0"},
	})
	writeJSON(t, filepath.Join(root, "node_modules", "react", "package.json"), map[string]any{"version": "18.2.0"})
	writeFile(t, filepath.Join(root, "src", "api.ts"), "export const handler = () => 1;\n")
	writeFile(t, filepath.Join(root, "src", "worker.ts"), "export default () => 2;\n")
	writeFile(t, filepath.Join(root, "src", "bad.ts"), "export const handler = () => 3;\n")
	writeFile(t, filepath.Join(root, "src", "bad.js"), "exports.handler = () => 3;\n")

	project, err := config.ParseProject([]byte(fixtureServerless), root)
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	return project
}

func newFixturePlugin(t *testing.T, project config.Project, runner *fakeRunner, bundler *fakeBundler) (*Plugin, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	p, err := New(project, Options{GOOS: "linux", Environ: map[string]string{}}, Dependencies{
		Out:     &out,
		ErrOut:  &out,
		Bundler: bundler,
		Runner:  runner,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, &out
}

func defaultBundler() *fakeBundler {
	return &fakeBundler{imports: map[string][]string{
		"api.ts":    {"axios", "react-dom", "fs"},
		"worker.ts": {"lodash/get", "undeclared-pkg"},
	}}
}

func layerKeys(t *testing.T, names []string) []string {
	t.Helper()
	out := append([]string{}, names...)
	sort.Strings(out)
	return out
}
