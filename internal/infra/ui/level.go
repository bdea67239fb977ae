// Where: internal/infra/ui/level.go
// What: Output verbosity levels.
// Why: Map the plugin's none/info/verbose/debug names onto ordered values.
package ui

import (
	"fmt"
	"strings"
)

// Level orders console verbosity. Higher values print more.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelVerbose
	LevelDebug
)

var levelNames = map[Level]string{
	LevelNone:    "none",
	LevelInfo:    "info",
	LevelVerbose: "verbose",
	LevelDebug:   "debug",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name. Empty input yields info.
func ParseLevel(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return LevelInfo, nil
	}
	for level, levelName := range levelNames {
		if levelName == normalized {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (expected none, info, verbose, debug)", name)
}
