// Where: internal/infra/packager/kind.go
// What: Supported package managers and their per-kind constants.
// Why: Keep lock file names and add verbs in one table.
package packager

import (
	"fmt"
	"strings"
)

// Kind names a supported package manager.
type Kind string

const (
	NPM  Kind = "npm"
	Yarn Kind = "yarn"
	PNPM Kind = "pnpm"

	// Auto asks for lock-file based detection.
	Auto Kind = "auto"
)

// Kinds lists the concrete package managers in detection order.
var Kinds = []Kind{NPM, Yarn, PNPM}

var lockFileNames = map[Kind]string{
	NPM:  "package-lock.json",
	Yarn: "yarn.lock",
	PNPM: "pnpm-lock.yaml",
}

var addCommands = map[Kind]string{
	NPM:  "npm install",
	Yarn: "yarn add",
	PNPM: "pnpm add",
}

// LockFile returns the lock file name for the package manager.
func (k Kind) LockFile() string {
	return lockFileNames[k]
}

// AddCommand returns the verb used to add dependencies.
func (k Kind) AddCommand() string {
	return addCommands[k]
}

// SupportsAutoclean reports whether a post-install autoclean step exists.
func (k Kind) SupportsAutoclean() bool {
	return k == Yarn
}

// ParseKind validates a configured packager name. Empty input means Auto.
func ParseKind(name string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return Auto, nil
	}
	if normalized == Auto {
		return Auto, nil
	}
	if _, ok := lockFileNames[normalized]; ok {
		return normalized, nil
	}
	return "", fmt.Errorf("unsupported packager %q (expected auto, npm, yarn, pnpm)", name)
}
