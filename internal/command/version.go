// Where: internal/command/version.go
// What: version command.
// Why: Report the build's module version or VCS revision.
package command

import (
	"fmt"
	"io"

	"github.com/poruru/esbuild-layers/internal/meta"
	"github.com/poruru/esbuild-layers/internal/version"
)

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintf(out, "%s %s\n", meta.AppName, version.GetVersion())
	return 0
}
