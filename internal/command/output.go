// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Give pre-plugin messages the same console styling as plugin output.
package command

import (
	"io"

	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

func newConsole(out, errOut io.Writer, noEmoji bool) *ui.Console {
	return ui.NewWithLevel(out, errOut, ui.LevelInfo, !noEmoji)
}
