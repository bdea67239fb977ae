// Where: internal/infra/config/plugin.go
// What: The custom.esbuild-layers block: defaults, schema validation, env overrides.
// Why: Produce one validated PluginConfig regardless of where a setting came from.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v9"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
	"github.com/poruru/esbuild-layers/internal/meta"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

// ErrInvalidConfig marks configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema/plugin.schema.json
var pluginSchema []byte

const pluginSchemaURL = "mem://esbuild-layers/plugin.schema.json"

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Commands overrides the shell commands the materializer runs.
type Commands struct {
	Add string `json:"add,omitempty"`
}

// PluginConfig is the resolved custom.esbuild-layers block.
type PluginConfig struct {
	Packager        string   `json:"packager"`
	Level           string   `json:"level"`
	Clean           bool     `json:"clean"`
	Minify          bool     `json:"minify"`
	PackageJSONPath string   `json:"packageJsonPath,omitempty"`
	BackupFileType  string   `json:"backupFileType,omitempty"`
	NodeModulesDir  string   `json:"nodeModulesDir,omitempty"`
	Commands        Commands `json:"commands,omitempty"`
}

// DefaultPluginConfig returns the settings used when nothing is configured.
func DefaultPluginConfig() PluginConfig {
	return PluginConfig{
		Packager:       string(packager.Auto),
		Level:          ui.LevelInfo.String(),
		Clean:          true,
		Minify:         false,
		NodeModulesDir: "node_modules",
	}
}

// ParsePluginConfig validates a YAML (or JSON) custom block and merges it
// over the defaults. An empty payload yields the defaults.
func ParsePluginConfig(payload []byte) (PluginConfig, error) {
	cfg := DefaultPluginConfig()
	if len(bytes.TrimSpace(payload)) == 0 {
		return cfg, nil
	}

	jsonData, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return PluginConfig{}, fmt.Errorf("convert %s config to json: %w", meta.CustomKey, err)
	}
	if bytes.Equal(bytes.TrimSpace(jsonData), []byte("null")) {
		return cfg, nil
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return PluginConfig{}, fmt.Errorf("decode %s config: %w", meta.CustomKey, err)
	}
	sch, err := loadPluginSchema()
	if err != nil {
		return PluginConfig{}, fmt.Errorf("load %s schema: %w", meta.CustomKey, err)
	}
	if err := sch.Validate(document); err != nil {
		return PluginConfig{}, fmt.Errorf("%w: custom.%s: %v", ErrInvalidConfig, meta.CustomKey, err)
	}

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return PluginConfig{}, fmt.Errorf("decode %s config: %w", meta.CustomKey, err)
	}
	return cfg, nil
}

func loadPluginSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(pluginSchemaURL, bytes.NewReader(pluginSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(pluginSchemaURL)
	})
	return compiledSchema, schemaErr
}

// envOverrides are read from ESBUILD_LAYERS_* variables. Booleans stay
// strings so an unset variable is distinguishable from "false".
type envOverrides struct {
	Packager string `env:"PACKAGER"`
	Level    string `env:"LEVEL"`
	Clean    string `env:"CLEAN"`
	Minify   string `env:"MINIFY"`
}

// ApplyEnv overlays environment overrides onto cfg. environ may be nil to
// read the process environment.
func ApplyEnv(cfg PluginConfig, environ map[string]string) (PluginConfig, error) {
	opts := env.Options{Prefix: meta.EnvPrefix + "_"}
	if environ != nil {
		opts.Environment = environ
	}
	var overrides envOverrides
	if err := env.ParseWithOptions(&overrides, opts); err != nil {
		return PluginConfig{}, fmt.Errorf("parse environment overrides: %w", err)
	}

	if value := strings.TrimSpace(overrides.Packager); value != "" {
		if _, err := packager.ParseKind(value); err != nil {
			return PluginConfig{}, fmt.Errorf("%w: %s_PACKAGER: %v", ErrInvalidConfig, meta.EnvPrefix, err)
		}
		cfg.Packager = strings.ToLower(value)
	}
	if value := strings.TrimSpace(overrides.Level); value != "" {
		level, err := ui.ParseLevel(value)
		if err != nil {
			return PluginConfig{}, fmt.Errorf("%w: %s_LEVEL: %v", ErrInvalidConfig, meta.EnvPrefix, err)
		}
		cfg.Level = level.String()
	}
	clean, err := parseBoolOverride("CLEAN", overrides.Clean, cfg.Clean)
	if err != nil {
		return PluginConfig{}, err
	}
	cfg.Clean = clean
	minify, err := parseBoolOverride("MINIFY", overrides.Minify, cfg.Minify)
	if err != nil {
		return PluginConfig{}, err
	}
	cfg.Minify = minify
	return cfg, nil
}

func parseBoolOverride(name, raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s_%s: %q is not a boolean", ErrInvalidConfig, meta.EnvPrefix, name, raw)
	}
	return parsed, nil
}

// ManifestDir returns the folder holding the root package.json. A trailing
// `package.json` on packageJsonPath is tolerated.
func (c PluginConfig) ManifestDir(root string) string {
	dir := strings.TrimSpace(c.PackageJSONPath)
	if dir == "" {
		return root
	}
	dir = filepath.ToSlash(dir)
	dir = strings.TrimSuffix(dir, "package.json")
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return root
	}
	dir = filepath.FromSlash(dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// NodeModules returns the node_modules folder next to the root manifest.
func (c PluginConfig) NodeModules(root string) string {
	dir := c.NodeModulesDir
	if strings.TrimSpace(dir) == "" {
		dir = "node_modules"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ManifestDir(root), dir)
}

// LogLevel returns the parsed level, forcing verbose when requested.
func (c PluginConfig) LogLevel(verbose bool) ui.Level {
	if verbose {
		return ui.LevelVerbose
	}
	level, err := ui.ParseLevel(c.Level)
	if err != nil {
		return ui.LevelInfo
	}
	return level
}
