// Where: internal/plugin/plugin.go
// What: Plugin construction and per-run state.
// Why: Resolve configuration and collaborators once, then share them across lifecycle hooks.
package plugin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/poruru/esbuild-layers/internal/domain/layer"
	"github.com/poruru/esbuild-layers/internal/infra/bundle"
	"github.com/poruru/esbuild-layers/internal/infra/cfn"
	"github.com/poruru/esbuild-layers/internal/infra/config"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
	"github.com/poruru/esbuild-layers/internal/infra/state"
	"github.com/poruru/esbuild-layers/internal/infra/ui"
	"github.com/poruru/esbuild-layers/internal/meta"
)

// Options are the per-invocation switches.
type Options struct {
	Verbose bool
	NoEmoji bool
	// Template is the compiled template location (path or s3:// URI).
	// Empty means the framework's default output path.
	Template string
	S3       cfn.S3Options
	// Environ replaces the process environment for config overrides.
	Environ map[string]string
	GOOS    string
}

// Dependencies are the collaborators a Plugin drives. Nil fields get
// production implementations.
type Dependencies struct {
	Out       io.Writer
	ErrOut    io.Writer
	Bundler   bundle.Bundler
	Runner    packager.Runner
	State     state.Store
	OpenStore func(ctx context.Context, location string, opts cfn.S3Options) (cfn.Store, error)
}

// Plugin installs layer dependencies and rewrites template references for
// one serverless project.
type Plugin struct {
	project   config.Project
	config    config.PluginConfig
	packager  packager.Kind
	log       *ui.Console
	opts      Options
	bundler   bundle.Bundler
	runner    packager.Runner
	state     state.Store
	openStore func(ctx context.Context, location string, opts cfn.S3Options) (cfn.Store, error)

	// installed holds the layers committed by InstallLayers in this process.
	installed    state.InstalledLayers
	installedRan bool
}

// New resolves the effective configuration and the package manager.
// Packager detection failures are fatal.
func New(project config.Project, opts Options, deps Dependencies) (*Plugin, error) {
	cfg, err := config.ApplyEnv(project.Plugin, opts.Environ)
	if err != nil {
		return nil, err
	}

	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := deps.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	log := ui.NewWithLevel(out, errOut, cfg.LogLevel(opts.Verbose), !opts.NoEmoji)

	configured, err := packager.ParseKind(cfg.Packager)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	kind, err := packager.Resolve(project.Root, configured)
	if err != nil {
		return nil, err
	}
	if configured == packager.Auto {
		log.Verbosef("Matched %s as the packager based on present lock files", kind)
	}

	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	p := &Plugin{
		project:   project,
		config:    cfg,
		packager:  kind,
		log:       log,
		opts:      opts,
		bundler:   deps.Bundler,
		runner:    deps.Runner,
		state:     deps.State,
		openStore: deps.OpenStore,
	}
	if p.bundler == nil {
		p.bundler = bundle.EsbuildBundler{WorkingDir: project.Root}
	}
	if p.runner == nil {
		p.runner = packager.ShellRunner{GOOS: opts.GOOS}
	}
	if p.state == nil {
		p.state = state.NewFileStore(project.Root)
	}
	if p.openStore == nil {
		p.openStore = cfn.OpenStore
	}
	return p, nil
}

// Packager returns the resolved package manager.
func (p *Plugin) Packager() packager.Kind { return p.packager }

// Console returns the plugin's output sink.
func (p *Plugin) Console() *ui.Console { return p.log }

// TemplateLocation is where transform hooks read the compiled template.
func (p *Plugin) TemplateLocation() string {
	if p.opts.Template != "" {
		return p.opts.Template
	}
	return filepath.Join(p.project.Root, filepath.FromSlash(meta.CompiledTemplateRel))
}

func (p *Plugin) findLayer(name string) (layer.Layer, bool) {
	for _, l := range p.project.Layers {
		if l.Key == name {
			return l, true
		}
	}
	return layer.Layer{}, false
}
