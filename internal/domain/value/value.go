// Where: internal/domain/value/value.go
// What: Value conversion helpers for decoded YAML/JSON documents.
// Why: Keep config and template walking concise without schema structs everywhere.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// AsMap converts a value to map form when possible.
func AsMap(value any) map[string]any {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return nil
}

// AsSlice converts a value to slice form, wrapping scalars when needed.
func AsSlice(value any) []any {
	if value == nil {
		return nil
	}
	if v, ok := value.([]any); ok {
		return v
	}
	return []any{value}
}

// AsString returns the string representation of a value.
func AsString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// AsStringDefault returns a string representation or the fallback.
func AsStringDefault(value any, fallback string) string {
	if out := AsString(value); out != "" {
		return out
	}
	return fallback
}

// AsBool coerces booleans and boolean-looking strings, returning fallback otherwise.
func AsBool(value any, fallback bool) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(typed)); err == nil {
			return parsed
		}
	}
	return fallback
}

// AsStringList accepts a single string or a list of strings.
// Anything else (numbers, maps, lists with non-string items) reports false.
func AsStringList(value any) ([]string, bool) {
	switch typed := value.(type) {
	case string:
		return []string{typed}, true
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// UpperFirst upper-cases the first ASCII letter of a string.
func UpperFirst(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
