// Where: internal/infra/packager/detect.go
// What: Lock-file based package manager detection.
// Why: Pick the project's package manager when the config says "auto".
package packager

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poruru/esbuild-layers/internal/infra/fileops"
)

var (
	ErrNoPackager        = errors.New("unable to find your packager, please set it in config")
	ErrMultiplePackagers = errors.New("more than one packager present, please choose your preferred packager by setting it in config")
)

// DetectError reports which lock files were found when detection fails.
type DetectError struct {
	Matches []Kind
}

func (e *DetectError) Error() string {
	if len(e.Matches) == 0 {
		return ErrNoPackager.Error()
	}
	names := make([]string, 0, len(e.Matches))
	for _, kind := range e.Matches {
		names = append(names, string(kind))
	}
	return fmt.Sprintf("more than one packager present (%s), please choose your preferred packager by setting it in config", strings.Join(names, ", "))
}

func (e *DetectError) Unwrap() error {
	if len(e.Matches) == 0 {
		return ErrNoPackager
	}
	return ErrMultiplePackagers
}

// Detect returns the single package manager whose lock file exists in root.
func Detect(root string) (Kind, error) {
	var matches []Kind
	for _, kind := range Kinds {
		if fileops.FileExists(filepath.Join(root, kind.LockFile())) {
			matches = append(matches, kind)
		}
	}
	if len(matches) != 1 {
		return "", &DetectError{Matches: matches}
	}
	return matches[0], nil
}

// Resolve returns configured unless it is Auto, in which case it detects.
func Resolve(root string, configured Kind) (Kind, error) {
	if configured != Auto && configured != "" {
		return configured, nil
	}
	return Detect(root)
}
