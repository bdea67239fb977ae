// Where: internal/infra/npm/modname.go
// What: Import specifier to installable package name normalization.
// Why: Deep imports (`pkg/sub`, `@scope/pkg/sub`) must resolve to the package itself.
package npm

import "strings"

// FixModuleName collapses a deep import specifier to its package name:
// `@scope/name/sub` -> `@scope/name`, `name/sub` -> `name`.
func FixModuleName(specifier string) string {
	parts := strings.Split(strings.TrimSpace(specifier), "/")
	if strings.HasPrefix(parts[0], "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
