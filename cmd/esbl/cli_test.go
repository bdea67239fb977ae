// Where: cmd/esbl/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure buildDependencies is deterministic.
package main

import (
	"os"
	"runtime"
	"testing"

	"github.com/poruru/esbuild-layers/internal/infra/packager"
)

func TestBuildDependencies(t *testing.T) {
	origGetwd := getwd
	t.Cleanup(func() { getwd = origGetwd })
	getwd = func() (string, error) { return "/service", nil }

	deps := buildDependencies()
	if deps.Out != os.Stdout || deps.ErrOut != os.Stderr {
		t.Fatal("expected process stdout/stderr")
	}
	dir, err := deps.Getwd()
	if err != nil || dir != "/service" {
		t.Fatalf("Getwd = %q, %v", dir, err)
	}
	runner, ok := deps.Runner.(packager.ShellRunner)
	if !ok || runner.GOOS != runtime.GOOS {
		t.Fatalf("unexpected runner: %#v", deps.Runner)
	}
	if deps.Bundler != nil || deps.OpenStore != nil {
		t.Fatal("bundler and template store are built per project")
	}
}
