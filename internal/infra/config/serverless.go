// Where: internal/infra/config/serverless.go
// What: serverless.yml loading into layer and function declarations.
// Why: Keep declaration order (layers install in map order) and normalize loose YAML shapes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/domain/value"
	"github.com/poruru/esbuild-layers/internal/meta"
	"gopkg.in/yaml.v3"
)

// DefaultServerlessFile is the config file looked up in the project root.
const DefaultServerlessFile = "serverless.yml"

// Project is a loaded serverless.yml.
type Project struct {
	Root      string
	Path      string
	Service   string
	Layers    []layer.Layer
	Functions []layer.Function
	Package   PackageConfig
	Plugin    PluginConfig
}

// PackageConfig is the service-level `package` block.
type PackageConfig struct {
	Exclude  []string `yaml:"exclude"`
	Patterns []string `yaml:"patterns"`
}

// CleanupExcludes returns the globs removed from installed layers:
// `package.exclude` when present, else the `!`-prefixed entries of
// `package.patterns` without the prefix.
func (p PackageConfig) CleanupExcludes() []string {
	if p.Exclude != nil {
		return append([]string(nil), p.Exclude...)
	}
	excludes := []string{}
	for _, pattern := range p.Patterns {
		if strings.HasPrefix(pattern, "!") {
			excludes = append(excludes, strings.TrimPrefix(pattern, "!"))
		}
	}
	return excludes
}

type serverlessFile struct {
	Service   any           `yaml:"service"`
	Layers    yaml.Node     `yaml:"layers"`
	Functions yaml.Node     `yaml:"functions"`
	Package   PackageConfig `yaml:"package"`
	Custom    yaml.Node     `yaml:"custom"`
}

type layerSpec struct {
	Path        string `yaml:"path"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Retain      any    `yaml:"retain"`
}

type functionSpec struct {
	Handler     string `yaml:"handler"`
	Image       any    `yaml:"image"`
	Layers      any    `yaml:"layers"`
	Entry       any    `yaml:"entry"`
	ShouldLayer any    `yaml:"shouldLayer"`
}

// LoadProject reads the serverless config at path. Relative layer paths
// resolve against the config's directory.
func LoadProject(path string) (Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Project{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	payload, err := os.ReadFile(abs)
	if err != nil {
		return Project{}, fmt.Errorf("read serverless config: %w", err)
	}
	project, err := ParseProject(payload, filepath.Dir(abs))
	if err != nil {
		return Project{}, err
	}
	project.Path = abs
	return project, nil
}

// ParseProject decodes a serverless config rooted at root.
func ParseProject(payload []byte, root string) (Project, error) {
	var file serverlessFile
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return Project{}, fmt.Errorf("decode serverless config: %w", err)
	}

	project := Project{
		Root:    root,
		Service: serviceName(file.Service),
		Package: file.Package,
	}

	layers, err := decodeLayers(&file.Layers, root)
	if err != nil {
		return Project{}, err
	}
	project.Layers = layers

	functions, err := decodeFunctions(&file.Functions)
	if err != nil {
		return Project{}, err
	}
	project.Functions = functions

	plugin, err := decodePluginConfig(&file.Custom)
	if err != nil {
		return Project{}, err
	}
	project.Plugin = plugin
	return project, nil
}

// serviceName accepts both `service: name` and the older `service: {name: ...}`.
func serviceName(raw any) string {
	if name, ok := raw.(string); ok {
		return name
	}
	return value.AsString(value.AsMap(raw)["name"])
}

func decodeLayers(node *yaml.Node, root string) ([]layer.Layer, error) {
	layers := []layer.Layer{}
	err := eachMapping(node, "layers", func(key string, item *yaml.Node) error {
		var spec layerSpec
		if err := item.Decode(&spec); err != nil {
			return fmt.Errorf("%w: layers.%s: %v", ErrInvalidConfig, key, err)
		}
		if strings.TrimSpace(spec.Path) == "" {
			return fmt.Errorf("%w: layers.%s: path is required", ErrInvalidConfig, key)
		}
		path := spec.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		layers = append(layers, layer.Layer{
			Key:         key,
			Name:        spec.Name,
			Path:        path,
			Description: spec.Description,
			Retain:      value.AsBool(spec.Retain, false),
		})
		return nil
	})
	return layers, err
}

func decodeFunctions(node *yaml.Node) ([]layer.Function, error) {
	functions := []layer.Function{}
	err := eachMapping(node, "functions", func(key string, item *yaml.Node) error {
		var spec functionSpec
		if err := item.Decode(&spec); err != nil {
			return fmt.Errorf("%w: functions.%s: %v", ErrInvalidConfig, key, err)
		}
		fn := layer.Function{
			Key:         key,
			Handler:     strings.TrimSpace(spec.Handler),
			Image:       imageName(spec.Image),
			Layers:      layerRefs(spec.Layers),
			Entry:       spec.Entry,
			ShouldLayer: value.AsBool(spec.ShouldLayer, true),
		}
		functions = append(functions, fn)
		return nil
	})
	return functions, err
}

// eachMapping walks a YAML mapping in document order. A missing or null
// node is an empty mapping.
func eachMapping(node *yaml.Node, field string, fn func(key string, item *yaml.Node) error) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %s must be a mapping", ErrInvalidConfig, field)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		item := node.Content[i+1]
		if item.Kind == yaml.ScalarNode && item.Tag == "!!null" {
			continue
		}
		if err := fn(key, item); err != nil {
			return err
		}
	}
	return nil
}

// layerRefs keeps `{Ref: X}` references as X and plain ARN strings as-is.
// A single reference is accepted in place of a list.
func layerRefs(raw any) []string {
	items := value.AsSlice(raw)
	refs := make([]string, 0, len(items))
	for _, item := range items {
		if ref := value.AsString(value.AsMap(item)["Ref"]); ref != "" {
			refs = append(refs, ref)
			continue
		}
		if arn, ok := item.(string); ok && arn != "" {
			refs = append(refs, arn)
		}
	}
	return refs
}

func imageName(raw any) string {
	if name, ok := raw.(string); ok {
		return name
	}
	image := value.AsMap(raw)
	if image == nil {
		return ""
	}
	return value.AsStringDefault(image["name"], value.AsString(image["uri"]))
}

func decodePluginConfig(custom *yaml.Node) (PluginConfig, error) {
	block, err := customBlock(custom, meta.CustomKey)
	if err != nil {
		return PluginConfig{}, err
	}
	var payload []byte
	if block != nil {
		payload, err = yaml.Marshal(block)
		if err != nil {
			return PluginConfig{}, fmt.Errorf("encode custom.%s: %w", meta.CustomKey, err)
		}
	}
	cfg, err := ParsePluginConfig(payload)
	if err != nil {
		return PluginConfig{}, err
	}
	if cfg.BackupFileType == "" {
		cfg.BackupFileType = legacyBackupFileType(custom)
	}
	return cfg, nil
}

// legacyBackupFileType reads custom.layerConfig.backupFileType, then
// custom.layerConfig.webpack.backupFileType.
func legacyBackupFileType(custom *yaml.Node) string {
	block, err := customBlock(custom, "layerConfig")
	if err != nil || block == nil {
		return ""
	}
	var layerConfig map[string]any
	if err := block.Decode(&layerConfig); err != nil {
		return ""
	}
	if backup := value.AsString(layerConfig["backupFileType"]); backup != "" {
		return backup
	}
	return value.AsString(value.AsMap(layerConfig["webpack"])["backupFileType"])
}

func customBlock(custom *yaml.Node, key string) (*yaml.Node, error) {
	var block *yaml.Node
	err := eachMapping(custom, "custom", func(name string, item *yaml.Node) error {
		if name == key {
			block = item
		}
		return nil
	})
	return block, err
}

// ResolveConfigPath finds the serverless config for cwd when path is empty.
func ResolveConfigPath(cwd, path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		if filepath.IsAbs(path) {
			return path, nil
		}
		return filepath.Join(cwd, path), nil
	}
	for _, name := range []string{DefaultServerlessFile, "serverless.yaml"} {
		candidate := filepath.Join(cwd, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no %s found in %s", ErrInvalidConfig, DefaultServerlessFile, cwd)
}
