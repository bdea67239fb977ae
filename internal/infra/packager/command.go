// Where: internal/infra/packager/command.go
// What: Install command rendering for each package manager.
// Why: Build one shell invocation with production-mode signaling per host shell.
package packager

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultAddTemplate renders `<env prefix> <add verb> 'name@version' ...`.
// Ranges such as `>=1.2.0` or `^15 || ^16` are shell syntax, so every spec
// is quoted for the host shell.
const DefaultAddTemplate = `{{ .EnvPrefix }} {{ .Add }} {{ .Specs | quoteArgs | join " " }}`

// CommandData is the data passed to add command templates.
type CommandData struct {
	EnvPrefix string
	Add       string
	Packager  string
	Specs     []string
}

// ProductionEnvPrefix returns the NODE_ENV assignment for the host shell.
func ProductionEnvPrefix(goos string) string {
	if goos == "windows" {
		return "set NODE_ENV=production &&"
	}
	return "NODE_ENV=production"
}

// BuildAddCommand renders the add command for specs. An empty tmpl uses
// DefaultAddTemplate. Templates get the sprig function map plus quoteArgs,
// which quotes a list of words for the host shell.
func BuildAddCommand(kind Kind, specs []string, goos, tmpl string) (string, error) {
	if kind.AddCommand() == "" {
		return "", fmt.Errorf("unsupported packager %q", kind)
	}
	if len(specs) == 0 {
		return "", fmt.Errorf("no dependencies to add")
	}
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultAddTemplate
	}
	funcs := sprig.TxtFuncMap()
	funcs["quoteArgs"] = func(words []string) []string { return QuoteArgs(goos, words) }
	parsed, err := template.New("add").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse add command template: %w", err)
	}
	var buf bytes.Buffer
	data := CommandData{
		EnvPrefix: ProductionEnvPrefix(goos),
		Add:       kind.AddCommand(),
		Packager:  string(kind),
		Specs:     specs,
	}
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render add command template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// QuoteArgs quotes each word as one argument: single quotes for sh,
// double quotes for cmd.exe.
func QuoteArgs(goos string, words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if goos == "windows" {
			out = append(out, `"`+strings.ReplaceAll(word, `"`, `""`)+`"`)
			continue
		}
		out = append(out, "'"+strings.ReplaceAll(word, "'", `'\''`)+"'")
	}
	return out
}

// AutocleanCommand returns the post-install cleanup command, if any.
func AutocleanCommand(kind Kind) (string, bool) {
	if !kind.SupportsAutoclean() {
		return "", false
	}
	return "yarn autoclean --init", true
}
