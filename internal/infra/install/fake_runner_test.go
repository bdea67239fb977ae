package install

import (
	"context"
	"errors"
)

type runCall struct {
	dir     string
	command string
}

type fakeRunner struct {
	calls  []runCall
	failOn string
}

func (f *fakeRunner) RunShell(_ context.Context, dir, command string) ([]byte, error) {
	f.calls = append(f.calls, runCall{dir: dir, command: command})
	if f.failOn != "" && f.failOn == command {
		return []byte("npm ERR! 404"), errors.New("exit status 1")
	}
	return []byte("added 2 packages"), nil
}
