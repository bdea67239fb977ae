// Where: internal/infra/ui/console.go
// What: Leveled console output helpers for consistent CLI UX.
// Why: Standardize prefixes, verbosity gating, and block formatting across commands.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/poruru/esbuild-layers/internal/meta"
)

// Logger is the output surface consumed by resolution and install components.
type Logger interface {
	Infof(format string, args ...any)
	Verbosef(format string, args ...any)
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	ErrOut       io.Writer
	Level        Level
	EmojiEnabled bool
}

var _ Logger = (*Console)(nil)

// NewWithLevel creates a new Console with explicit level and emoji settings.
func NewWithLevel(out, errOut io.Writer, level Level, emoji bool) *Console {
	if errOut == nil {
		errOut = out
	}
	return &Console{Out: out, ErrOut: errOut, Level: level, EmojiEnabled: emoji}
}

// Discard returns a Console that drops everything.
func Discard() *Console {
	return &Console{Out: io.Discard, ErrOut: io.Discard, Level: LevelNone}
}

// Header prints a section header with an emoji.
func (c *Console) Header(emoji, title string) {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), title)
}

// BlockStart starts a logical block of information with an emoji header.
func (c *Console) BlockStart(emoji, title string) {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
}

// BlockEnd ends a logical block.
func (c *Console) BlockEnd() {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintln(c.Out)
}

// Item prints a key-value item with indentation.
// Example:    Key: Value.
func (c *Console) Item(key string, value any) {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintf(c.Out, "   %-30s %v\n", key+":", value)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.prefix("✅", "[ok]"), msg)
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	if !c.enabled(LevelInfo) {
		return
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.prefix("", meta.LogPrefix), msg)
}

func (c *Console) Infof(format string, args ...any) {
	c.Info(fmt.Sprintf(format, args...))
}

// Verbosef prints per-package and per-reference diagnostics.
func (c *Console) Verbosef(format string, args ...any) {
	if !c.enabled(LevelVerbose) {
		return
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.prefix("", meta.LogPrefix), fmt.Sprintf(format, args...))
}

func (c *Console) Debugf(format string, args ...any) {
	if !c.enabled(LevelDebug) {
		return
	}
	fmt.Fprintf(c.Out, "%s%s\n", c.prefix("🔍", meta.LogPrefix), fmt.Sprintf(format, args...))
}

// Warn prints a warning message. Warnings ignore the level gate.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.errOut(), "%s%s\n", c.prefix("⚠️", "[warn]"), msg)
}

func (c *Console) Warnf(format string, args ...any) {
	c.Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message. Errors ignore the level gate.
func (c *Console) Error(msg string) {
	fmt.Fprintf(c.errOut(), "%s%s\n", c.prefix("✗", "[error]"), msg)
}

func (c *Console) Errorf(format string, args ...any) {
	c.Error(fmt.Sprintf(format, args...))
}

func (c *Console) enabled(level Level) bool {
	return c != nil && c.Out != nil && c.Level >= level
}

func (c *Console) errOut() io.Writer {
	if c == nil {
		return io.Discard
	}
	if c.ErrOut != nil {
		return c.ErrOut
	}
	if c.Out != nil {
		return c.Out
	}
	return io.Discard
}

func (c *Console) prefix(emoji, plain string) string {
	if p := c.emojiPrefix(emoji); p != "" {
		return p
	}
	if plain == "" {
		return ""
	}
	return plain + " "
}

func (c *Console) emojiPrefix(emoji string) string {
	if c == nil || !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
