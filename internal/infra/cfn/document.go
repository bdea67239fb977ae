// Where: internal/infra/cfn/document.go
// What: Compiled template decoding and encoding.
// Why: Accept JSON or YAML templates and write them back in the same format.
package cfn

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// Format is the serialization of a template document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a decoded template plus its original serialization.
type Document struct {
	Body   map[string]any
	Format Format
}

// Decode parses a JSON or YAML template.
func Decode(payload []byte) (Document, error) {
	format := FormatYAML
	if trimmed := bytes.TrimSpace(payload); len(trimmed) > 0 && trimmed[0] == '{' {
		format = FormatJSON
	}
	var body map[string]any
	if err := yaml.Unmarshal(payload, &body); err != nil {
		return Document{}, fmt.Errorf("decode template: %w", err)
	}
	if body == nil {
		return Document{}, fmt.Errorf("decode template: empty document")
	}
	return Document{Body: body, Format: format}, nil
}

// Encode serializes the document in its original format.
func Encode(doc Document) ([]byte, error) {
	if doc.Format == FormatYAML {
		payload, err := yaml.Marshal(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("encode template: %w", err)
		}
		return payload, nil
	}
	payload, err := json.MarshalIndent(doc.Body, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return append(payload, '\n'), nil
}
