// Where: cmd/esbl/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"
	"runtime"

	"github.com/poruru/esbuild-layers/internal/command"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
)

var getwd = os.Getwd

// buildDependencies constructs the runtime dependencies required by the CLI.
// Collaborators left nil are built per project once the service directory is known.
func buildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Getwd:  getwd,
		Runner: packager.ShellRunner{GOOS: runtime.GOOS},
		GOOS:   runtime.GOOS,
	}
}
