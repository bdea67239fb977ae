// Where: internal/infra/packager/runner.go
// What: Shell command execution for package manager invocations.
// Why: Let installs run through the host shell while staying fakeable in tests.
package packager

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Runner executes a shell command line in dir and returns combined output.
type Runner interface {
	RunShell(ctx context.Context, dir, command string) ([]byte, error)
}

// ShellRunner runs commands through `sh -c`, or `cmd /C` on Windows.
type ShellRunner struct {
	GOOS string
}

func (r ShellRunner) RunShell(ctx context.Context, dir, command string) ([]byte, error) {
	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	var cmd *exec.Cmd
	if goos == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("run %q: %w", command, err)
	}
	return output, nil
}
