package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/poruru/esbuild-layers/internal/infra/state"
)

const fixtureTemplate = `{
  "Resources": {
    "SharedLambdaLayer": {"Type": "AWS::Lambda::LayerVersion"},
    "SharedLambdaLayerV2": {"Type": "AWS::Lambda::LayerVersion", "DeletionPolicy": "Retain"},
    "ApiLambdaFunction": {
      "Type": "AWS::Lambda::Function",
      "Properties": {"Layers": [{"Ref": "SharedLambdaLayer"}]}
    }
  },
  "Outputs": {
    "SharedLambdaLayerQualifiedArn": {"Value": {"Ref": "SharedLambdaLayerV2"}}
  }
}`

func templatePath(root string) string {
	return filepath.Join(root, ".serverless", "cloudformation-template-update-stack.json")
}

func readTemplate(t *testing.T, path string) map[string]any {
	t.Helper()
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	var tpl map[string]any
	if err := json.Unmarshal(payload, &tpl); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	return tpl
}

func apiLayerRef(tpl map[string]any) any {
	resources := tpl["Resources"].(map[string]any)
	props := resources["ApiLambdaFunction"].(map[string]any)["Properties"].(map[string]any)
	return props["Layers"].([]any)[0].(map[string]any)["Ref"]
}

func TestTransformUsesPersistedInstallState(t *testing.T) {
	project := newFixtureProject(t)
	writeFile(t, templatePath(project.Root), fixtureTemplate)
	if err := state.NewFileStore(project.Root).Save(state.InstalledLayers{Service: "orders", Layers: []string{"shared"}}); err != nil {
		t.Fatalf("save state: %v", err)
	}
	p, _ := newFixturePlugin(t, project, &fakeRunner{}, defaultBundler())

	if err := p.Dispatch(context.Background(), EventBeforeDeploy); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	tpl := readTemplate(t, templatePath(project.Root))
	if ref := apiLayerRef(tpl); ref != "SharedLambdaLayerV2" {
		t.Fatalf("function layer ref = %v", ref)
	}
	output := tpl["Outputs"].(map[string]any)["SharedLambdaLayerQualifiedArn"].(map[string]any)
	wantExport := map[string]any{"Name": map[string]any{"Fn::Sub": "SharedLambdaLayerQualifiedArn"}}
	if !reflect.DeepEqual(output["Export"], wantExport) {
		t.Fatalf("export = %v", output["Export"])
	}
}

func TestTransformWithoutInstallLeavesTemplate(t *testing.T) {
	project := newFixtureProject(t)
	writeFile(t, templatePath(project.Root), fixtureTemplate)
	p, _ := newFixturePlugin(t, project, &fakeRunner{}, defaultBundler())

	result, err := p.TransformTemplate(context.Background())
	if err != nil {
		t.Fatalf("TransformTemplate: %v", err)
	}
	if result.Changed() {
		t.Fatalf("nothing installed, expected no changes: %+v", result)
	}
	payload, _ := os.ReadFile(templatePath(project.Root))
	if string(payload) != fixtureTemplate {
		t.Fatal("template must not be rewritten when unchanged")
	}
}

func TestTransformIgnoresStateOfAnotherService(t *testing.T) {
	project := newFixtureProject(t)
	if err := state.NewFileStore(project.Root).Save(state.InstalledLayers{Service: "billing", Layers: []string{"shared"}}); err != nil {
		t.Fatalf("save state: %v", err)
	}
	p, _ := newFixturePlugin(t, project, &fakeRunner{}, defaultBundler())
	names, err := p.InstalledLayerNames()
	if err != nil || len(names) != 0 {
		t.Fatalf("names = %v, %v", names, err)
	}
}

func TestTransformMissingTemplateIsNotAnError(t *testing.T) {
	project := newFixtureProject(t)
	p, _ := newFixturePlugin(t, project, &fakeRunner{}, defaultBundler())
	if err := p.Dispatch(context.Background(), EventAfterCreateArtifacts); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

func TestPackageLifecycleInOneProcess(t *testing.T) {
	project := newFixtureProject(t)
	runner := &fakeRunner{}
	p, _ := newFixturePlugin(t, project, runner, defaultBundler())

	for _, event := range p.Events() {
		if event == EventAfterMergeProviderResource {
			writeFile(t, templatePath(project.Root), fixtureTemplate)
		}
		if err := p.Dispatch(context.Background(), event); err != nil {
			t.Fatalf("Dispatch(%s): %v", event, err)
		}
	}
	if ref := apiLayerRef(readTemplate(t, templatePath(project.Root))); ref != "SharedLambdaLayerV2" {
		t.Fatalf("function layer ref = %v", ref)
	}
}

func TestHooksTable(t *testing.T) {
	project := newFixtureProject(t)
	p, _ := newFixturePlugin(t, project, &fakeRunner{}, defaultBundler())

	want := []string{
		"package:initialize",
		"after:package:createDeploymentArtifacts",
		"after:aws:package:finalize:mergeCustomProviderResources",
		"before:deploy:deploy",
	}
	if !reflect.DeepEqual(p.Events(), want) {
		t.Fatalf("events = %v", p.Events())
	}
	if err := p.Dispatch(context.Background(), "deploy:finalize"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}
