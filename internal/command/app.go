// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/esbuild-layers/internal/infra/bundle"
	"github.com/poruru/esbuild-layers/internal/infra/cfn"
	"github.com/poruru/esbuild-layers/internal/infra/packager"
	"github.com/poruru/esbuild-layers/internal/meta"
)

// Dependencies holds the injected collaborators for command execution.
// Nil fields fall back to production implementations.
type Dependencies struct {
	Out       io.Writer
	ErrOut    io.Writer
	Getwd     func() (string, error)
	Bundler   bundle.Bundler
	Runner    packager.Runner
	OpenStore func(ctx context.Context, location string, opts cfn.S3Options) (cfn.Store, error)
	// Environ replaces the process environment for ESBUILD_LAYERS_* overrides.
	Environ map[string]string
	GOOS    string
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config    string       `short:"c" name:"config" help:"Path to serverless.yml (default: ./serverless.yml)"`
	Cwd       string       `name:"cwd" help:"Service directory (default: current directory)"`
	Verbose   bool         `short:"v" help:"Verbose output"`
	EnvFile   string       `name:"env-file" help:"Path to .env file"`
	NoEmoji   bool         `name:"no-emoji" help:"Disable emoji output"`
	Install   InstallCmd   `cmd:"" help:"Install the dependencies of every layer"`
	Transform TransformCmd `cmd:"" help:"Export retained layers and rewrite function layer references"`
	Hook      HookCmd      `cmd:"" help:"Run the handler bound to a lifecycle event"`
	Package   PackageCmd   `cmd:"" help:"Run every lifecycle hook in order"`
	Modules   ModulesCmd   `cmd:"" help:"Print the resolved dependencies of a layer"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

type (
	// TemplateFlags locate the compiled template.
	TemplateFlags struct {
		Template   string `short:"t" help:"Compiled template path or s3://bucket/key (default: .serverless/cloudformation-template-update-stack.json)"`
		Region     string `help:"AWS region for s3:// templates"`
		S3Endpoint string `name:"s3-endpoint" help:"Custom S3 endpoint for s3:// templates"`
	}

	InstallCmd struct{}

	TransformCmd struct {
		TemplateFlags `embed:""`
	}

	HookCmd struct {
		Event         string `arg:"" help:"Lifecycle event name (e.g. package:initialize)"`
		TemplateFlags `embed:""`
	}

	PackageCmd struct {
		TemplateFlags `embed:""`
	}

	ModulesCmd struct {
		Layer string `arg:"" help:"Layer key as declared under layers:"`
	}

	VersionCmd struct{}
)

func (f TemplateFlags) s3Options() cfn.S3Options {
	return cfn.S3Options{Region: f.Region, Endpoint: f.S3Endpoint}
}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments and dispatches to the matching
// handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	out := deps.Out

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(cliName()),
		kong.Description(meta.AppName+": install Lambda layer dependencies discovered by esbuild"),
		kong.Writers(out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, deps.ErrOut)
	}

	// Load environment file if provided or if .env exists in the service directory
	console := newConsole(out, deps.ErrOut, cli.NoEmoji)
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			console.Warnf("failed to load env file %s: %v", cli.EnvFile, err)
		}
	} else if dotenv, ok := defaultDotenv(cli, deps); ok {
		if err := godotenv.Load(dotenv); err != nil {
			console.Warnf("failed to load %s: %v", dotenv, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := kctx.Command()
	if exitCode, handled := dispatchCommand(ctx, command, cli, deps); handled {
		return exitCode
	}

	console.Warn("unknown command")
	return 1
}

type commandHandler func(context.Context, CLI, Dependencies) int

func dispatchCommand(ctx context.Context, command string, cli CLI, deps Dependencies) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"install":         runInstall,
		"transform":       runTransform,
		"hook <event>":    runHook,
		"package":         runPackage,
		"modules <layer>": runModules,
		"version":         func(_ context.Context, _ CLI, deps Dependencies) int { return runVersion(deps.Out) },
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(ctx, cli, deps), true
	}
	return 1, false
}

func defaultDotenv(cli CLI, deps Dependencies) (string, bool) {
	dir, err := serviceDir(cli, deps)
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// runNoArgs prints usage when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	cmd := cliName()
	lines := []string{
		"Usage:",
		fmt.Sprintf("  %s install [--config serverless.yml]", cmd),
		fmt.Sprintf("  %s transform [--template <path|s3://bucket/key>]", cmd),
		fmt.Sprintf("  %s hook <event>", cmd),
		fmt.Sprintf("  %s package", cmd),
		"",
		fmt.Sprintf("Try: %s --help", cmd),
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	cmd := cliName()
	switch {
	case strings.Contains(msg, "expected \"<event>\""):
		return exitWithSuggestion(out, "`hook` expects a lifecycle event name.", []string{
			fmt.Sprintf("%s hook package:initialize", cmd),
			fmt.Sprintf("%s hook before:deploy:deploy", cmd),
		})
	case strings.Contains(msg, "expected \"<layer>\""):
		return exitWithSuggestion(out, "`modules` expects a layer key.", []string{
			fmt.Sprintf("%s modules shared", cmd),
		})
	case strings.Contains(msg, "expected string value"):
		switch {
		case strings.Contains(msg, "--template"):
			return exitWithSuggestion(out, "`-t/--template` expects a value.", []string{
				fmt.Sprintf("%s transform -t .serverless/cloudformation-template-update-stack.json", cmd),
				fmt.Sprintf("%s transform -t s3://deploy-bucket/serverless/app/compiled.json", cmd),
			})
		case strings.Contains(msg, "--config"):
			return exitWithSuggestion(out, "`-c/--config` expects a value.", []string{
				fmt.Sprintf("%s install -c serverless.yml", cmd),
			})
		case strings.Contains(msg, "--env-file"):
			return exitWithSuggestion(out, "`--env-file` expects a value.", []string{
				fmt.Sprintf("%s install --env-file .env.prod", cmd),
			})
		}
	}
	return exitWithError(out, err)
}
