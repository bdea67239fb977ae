// Where: internal/command/lifecycle.go
// What: install, transform, hook, package, and modules command handlers.
// Why: Map CLI commands onto plugin lifecycle operations.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/poruru/esbuild-layers/internal/plugin"
)

func runInstall(ctx context.Context, cli CLI, deps Dependencies) int {
	p, err := loadPlugin(cli, deps, "", TemplateFlags{}.s3Options())
	if err != nil {
		return exitWithConfigError(deps.ErrOut, err)
	}
	result, err := p.InstallLayers(ctx)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	console := p.Console()
	if len(result.InstalledLayers) > 0 {
		console.BlockStart("📦", fmt.Sprintf("Installed layers (%s)", p.Packager()))
		for _, l := range result.InstalledLayers {
			console.Item(l.Key, l.NodeDir())
		}
		console.BlockEnd()
	}
	return 0
}

func runTransform(ctx context.Context, cli CLI, deps Dependencies) int {
	flags := cli.Transform.TemplateFlags
	p, err := loadPlugin(cli, deps, flags.Template, flags.s3Options())
	if err != nil {
		return exitWithConfigError(deps.ErrOut, err)
	}
	result, err := p.TransformTemplate(ctx)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	installed, err := p.InstalledLayerNames()
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	console := p.Console()
	console.BlockStart("🔗", "Template "+p.TemplateLocation())
	console.Item("Installed layers", strings.Join(installed, ", "))
	console.Item("Exported layers", len(result.ExportedLayers))
	console.Item("Upgraded references", len(result.UpgradedLayerReferences))
	console.BlockEnd()
	console.Success(fmt.Sprintf("Exported %d layer(s), upgraded %d reference(s)",
		len(result.ExportedLayers), len(result.UpgradedLayerReferences)))
	return 0
}

func runHook(ctx context.Context, cli CLI, deps Dependencies) int {
	flags := cli.Hook.TemplateFlags
	p, err := loadPlugin(cli, deps, flags.Template, flags.s3Options())
	if err != nil {
		return exitWithConfigError(deps.ErrOut, err)
	}
	if err := p.Dispatch(ctx, cli.Hook.Event); err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	return 0
}

func runPackage(ctx context.Context, cli CLI, deps Dependencies) int {
	flags := cli.Package.TemplateFlags
	p, err := loadPlugin(cli, deps, flags.Template, flags.s3Options())
	if err != nil {
		return exitWithConfigError(deps.ErrOut, err)
	}
	return runEvents(ctx, p, deps)
}

func runEvents(ctx context.Context, p *plugin.Plugin, deps Dependencies) int {
	for _, event := range p.Events() {
		if err := p.Dispatch(ctx, event); err != nil {
			return exitWithError(deps.ErrOut, fmt.Errorf("%s: %w", event, err))
		}
	}
	return 0
}

func runModules(ctx context.Context, cli CLI, deps Dependencies) int {
	p, err := loadPlugin(cli, deps, "", TemplateFlags{}.s3Options())
	if err != nil {
		return exitWithConfigError(deps.ErrOut, err)
	}
	record, err := p.FetchModulesForLayer(ctx, cli.Modules.Layer)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	for _, spec := range record.Specs() {
		fmt.Fprintln(deps.Out, spec)
	}
	return 0
}
