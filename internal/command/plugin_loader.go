// Where: internal/command/plugin_loader.go
// What: Project loading and plugin construction shared by commands.
// Why: Resolve the service directory and config file the same way for every command.
package command

import (
	"path/filepath"
	"strings"

	"github.com/poruru/esbuild-layers/internal/infra/cfn"
	"github.com/poruru/esbuild-layers/internal/infra/config"
	"github.com/poruru/esbuild-layers/internal/plugin"
)

func serviceDir(cli CLI, deps Dependencies) (string, error) {
	cwd, err := deps.Getwd()
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(cli.Cwd)
	if dir == "" {
		return cwd, nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	return dir, nil
}

func loadPlugin(cli CLI, deps Dependencies, template string, s3 cfn.S3Options) (*plugin.Plugin, error) {
	dir, err := serviceDir(cli, deps)
	if err != nil {
		return nil, err
	}
	path, err := config.ResolveConfigPath(dir, cli.Config)
	if err != nil {
		return nil, err
	}
	project, err := config.LoadProject(path)
	if err != nil {
		return nil, err
	}
	if template != "" && !cfn.IsS3URI(template) && !filepath.IsAbs(template) {
		template = filepath.Join(dir, template)
	}
	opts := plugin.Options{
		Verbose:  cli.Verbose,
		NoEmoji:  cli.NoEmoji,
		Template: template,
		S3:       s3,
		Environ:  deps.Environ,
		GOOS:     deps.GOOS,
	}
	return plugin.New(project, opts, plugin.Dependencies{
		Out:       deps.Out,
		ErrOut:    deps.ErrOut,
		Bundler:   deps.Bundler,
		Runner:    deps.Runner,
		OpenStore: deps.OpenStore,
	})
}
