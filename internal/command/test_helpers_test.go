package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/poruru/esbuild-layers/internal/infra/bundle"
)

const serviceYAML = `
service: orders
layers:
  shared:
    path: layers/shared
    retain: true
functions:
  api:
    handler: src/api.handler
    layers:
      - Ref: SharedLambdaLayer
`

type stubBundler struct {
	modules []string
}

func (s stubBundler) Bundle(_ context.Context, _ []string) (bundle.Metafile, error) {
	var imports []bundle.MetafileImport
	for _, module := range s.modules {
		imports = append(imports, bundle.MetafileImport{Path: module, External: true})
	}
	return bundle.Metafile{Outputs: map[string]bundle.MetafileOutput{"out.js": {Imports: imports}}}, nil
}

type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) RunShell(_ context.Context, _ string, command string) ([]byte, error) {
	r.commands = append(r.commands, command)
	return nil, nil
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newService(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "serverless.yml"), serviceYAML)
	manifest, _ := json.Marshal(map[string]any{
		"dependencies": map[string]string{"axios": "^1.6.0"},
	})
	writeTestFile(t, filepath.Join(dir, "package.json"), string(manifest))
	writeTestFile(t, filepath.Join(dir, "yarn.lock"), "")
	writeTestFile(t, filepath.Join(dir, "node_modules", "axios", "package.json"), `{"version":"1.6.2"}`)
	writeTestFile(t, filepath.Join(dir, "src", "api.ts"), "export const handler = () => 1;\n")
	return dir
}

type testEnv struct {
	deps   Dependencies
	out    *bytes.Buffer
	errOut *bytes.Buffer
	runner *recordingRunner
}

func newTestEnv(dir string) testEnv {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	runner := &recordingRunner{}
	return testEnv{
		deps: Dependencies{
			Out:     out,
			ErrOut:  errOut,
			Getwd:   func() (string, error) { return dir, nil },
			Bundler: stubBundler{modules: []string{"axios"}},
			Runner:  runner,
			Environ: map[string]string{},
			GOOS:    "linux",
		},
		out:    out,
		errOut: errOut,
		runner: runner,
	}
}
