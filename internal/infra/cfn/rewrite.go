// Where: internal/infra/cfn/rewrite.go
// What: Export and versioned-reference rewriting for retained layers.
// Why: Point functions at immutable layer versions instead of the mutable resource.
package cfn

import (
	"sort"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/domain/value"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
)

const lambdaFunctionType = "AWS::Lambda::Function"

// Result is the change log of a rewrite pass.
type Result struct {
	ExportedLayers          []map[string]any
	UpgradedLayerReferences []map[string]any
}

// Changed reports whether the pass touched the template.
func (r Result) Changed() bool {
	return len(r.ExportedLayers) > 0 || len(r.UpgradedLayerReferences) > 0
}

// TransformLayerResources mutates tpl in place: every installed, retained
// layer with a `<Name>LambdaLayerQualifiedArn` output gets an export, and
// function layer references to the plain layer id are replaced with the
// versioned id the output points at. Running it again is a no-op apart
// from re-reporting exports.
func TransformLayerResources(tpl map[string]any, layers []layer.Layer, installed func(string) bool, log ui.Logger) Result {
	if log == nil {
		log = ui.Discard()
	}
	result := Result{
		ExportedLayers:          []map[string]any{},
		UpgradedLayerReferences: []map[string]any{},
	}
	outputs := value.AsMap(tpl["Outputs"])
	resources := value.AsMap(tpl["Resources"])

	for _, l := range layers {
		if installed == nil || !installed(l.Key) {
			continue
		}
		exportName := ExportName(l.Key)
		output := value.AsMap(outputs[exportName])
		if output == nil {
			log.Verbosef("No %s output found for layer %s", exportName, l.Key)
			continue
		}
		if !l.Retain {
			continue
		}

		output["Export"] = map[string]any{
			"Name": map[string]any{"Fn::Sub": exportName},
		}
		result.ExportedLayers = append(result.ExportedLayers, output)

		plainRef := LayerLogicalID(l.Key)
		versionedRef := value.AsString(value.AsMap(output["Value"])["Ref"])
		if versionedRef == "" || versionedRef == plainRef {
			continue
		}
		log.Infof("Replacing references to %s with %s", plainRef, versionedRef)
		upgraded := upgradeReferences(resources, plainRef, versionedRef, log)
		result.UpgradedLayerReferences = append(result.UpgradedLayerReferences, upgraded...)
	}
	return result
}

func upgradeReferences(resources map[string]any, plainRef, versionedRef string, log ui.Logger) []map[string]any {
	var upgraded []map[string]any
	for _, id := range sortedKeys(resources) {
		resource := value.AsMap(resources[id])
		if value.AsString(resource["Type"]) != lambdaFunctionType {
			continue
		}
		props := value.AsMap(resource["Properties"])
		layers, _ := props["Layers"].([]any)
		for _, item := range layers {
			ref := value.AsMap(item)
			if ref == nil || value.AsString(ref["Ref"]) != plainRef {
				continue
			}
			log.Verbosef("%s: Updating reference to layer version %s", id, versionedRef)
			ref["Ref"] = versionedRef
			upgraded = append(upgraded, ref)
		}
	}
	return upgraded
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
