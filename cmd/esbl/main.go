// Where: cmd/esbl/main.go
// What: CLI entrypoint.
// Why: Execute esbuild-layers commands with configured dependencies.
package main

import (
	"os"

	"github.com/poruru/esbuild-layers/internal/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], buildDependencies()))
}
