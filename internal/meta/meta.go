// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep naming, env prefixes, and state locations in one place.
package meta

const (
	// Project Identity
	AppName   = "esbuild-layers"
	Slug      = "esbl"
	EnvPrefix = "ESBUILD_LAYERS"
	LogPrefix = "[esbuild-layers]"

	// serverless.yml key holding plugin configuration.
	CustomKey = "esbuild-layers"

	// Serverless output folder and files produced or consumed inside it.
	ServerlessDir       = ".serverless"
	StateFileName       = "esbuild-layers.json"
	CompiledTemplateRel = ".serverless/cloudformation-template-update-stack.json"
)
