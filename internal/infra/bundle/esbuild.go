// Where: internal/infra/bundle/esbuild.go
// What: esbuild-backed Bundler implementation.
// Why: Use esbuild's resolver and metafile instead of re-implementing module resolution.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// EsbuildBundler bundles entries in memory (nothing is written to disk).
type EsbuildBundler struct {
	// WorkingDir anchors relative resolution and metafile paths.
	WorkingDir string
	// OutDir is where outputs would be written; only used for naming.
	OutDir string
}

func (b EsbuildBundler) Bundle(ctx context.Context, entries []string) (Metafile, error) {
	if err := ctx.Err(); err != nil {
		return Metafile{}, err
	}
	outDir := b.OutDir
	if outDir == "" {
		outDir = filepath.Join(b.WorkingDir, ".serverless", "esbuild-layers")
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   entries,
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Platform:      api.PlatformNode,
		Format:        api.FormatCommonJS,
		LogLevel:      api.LogLevelSilent,
		Outdir:        outDir,
		AbsWorkingDir: b.WorkingDir,
		Plugins:       []api.Plugin{nodeExternalsPlugin()},
	})

	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			msgs = append(msgs, formatMessage(msg))
		}
		return Metafile{}, fmt.Errorf("bundle failed: %s", strings.Join(msgs, "; "))
	}

	var meta Metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return Metafile{}, fmt.Errorf("parse metafile: %w", err)
	}
	return meta, nil
}

// nodeExternalsPlugin marks bare package specifiers external so they stay
// imports in the metafile instead of being inlined.
func nodeExternalsPlugin() api.Plugin {
	return api.Plugin{
		Name: "node-externals",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^[^./]`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind == api.ResolveEntryPoint || filepath.IsAbs(args.Path) {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{
						Path:     args.Path,
						External: true,
					}, nil
				})
		},
	}
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
}
