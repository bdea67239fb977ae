// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep failure messages and suggestions consistent across commands.
package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/poruru/esbuild-layers/internal/infra/config"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
	"github.com/poruru/esbuild-layers/internal/meta"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	fmt.Fprintf(out, "✗ %v\n", err)
	return 1
}

// exitWithSuggestion prints an error message with suggested next steps.
func exitWithSuggestion(out io.Writer, message string, suggestions []string) int {
	fmt.Fprintf(out, "✗ %s\n", message)
	if len(suggestions) > 0 {
		fmt.Fprintln(out, "Next steps:")
		for _, suggestion := range suggestions {
			fmt.Fprintf(out, "  - %s\n", suggestion)
		}
	}
	return 1
}

// exitWithConfigError adds hints for configuration failures.
func exitWithConfigError(out io.Writer, err error) int {
	switch {
	case errors.Is(err, packager.ErrNoPackager), errors.Is(err, packager.ErrMultiplePackagers):
		return exitWithSuggestion(out, err.Error(), []string{
			fmt.Sprintf("Set custom.%s.packager to npm, yarn or pnpm", meta.CustomKey),
			fmt.Sprintf("Or export %s_PACKAGER", meta.EnvPrefix),
		})
	case errors.Is(err, config.ErrInvalidConfig):
		return exitWithSuggestion(out, err.Error(), []string{
			fmt.Sprintf("Check the custom.%s block and layers section of serverless.yml", meta.CustomKey),
		})
	}
	return exitWithError(out, err)
}
