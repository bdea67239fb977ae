// Where: internal/infra/cfn/names.go
// What: Logical id and export name derivation for layers.
// Why: Match the names the Serverless Framework emits for layer resources.
package cfn

import (
	"strings"
	"unicode"
)

const (
	layerSuffix        = "LambdaLayer"
	qualifiedArnSuffix = "LambdaLayerQualifiedArn"
)

// PascalCase joins the alphanumeric words of value, upper-casing the
// first letter of each: `my-shared_layer` -> `MySharedLayer`.
func PascalCase(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// LayerLogicalID is the unversioned layer resource id for a layer key.
func LayerLogicalID(key string) string {
	return PascalCase(key) + layerSuffix
}

// ExportName is the output/export name carrying the layer's qualified ARN.
func ExportName(key string) string {
	return PascalCase(key) + qualifiedArnSuffix
}
