// Where: internal/infra/bundle/builtin.go
// What: Node.js built-in module classification.
// Why: Built-ins ship with the runtime and never belong in a layer.
package bundle

import "strings"

var nodeBuiltins = map[string]struct{}{
	"assert": {}, "async_hooks": {}, "buffer": {}, "child_process": {}, "cluster": {},
	"console": {}, "constants": {}, "crypto": {}, "dgram": {}, "diagnostics_channel": {},
	"dns": {}, "domain": {}, "events": {}, "fs": {}, "http": {}, "http2": {}, "https": {},
	"inspector": {}, "module": {}, "net": {}, "os": {}, "path": {}, "perf_hooks": {},
	"process": {}, "punycode": {}, "querystring": {}, "readline": {}, "repl": {},
	"stream": {}, "string_decoder": {}, "sys": {}, "timers": {}, "tls": {},
	"trace_events": {}, "tty": {}, "url": {}, "util": {}, "v8": {}, "vm": {}, "wasi": {},
	"worker_threads": {}, "zlib": {},
}

// IsBuiltin reports whether name refers to a Node.js built-in module,
// including `node:` prefixed forms and subpaths like `fs/promises`.
func IsBuiltin(name string) bool {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "node:") {
		return true
	}
	if name == "" || strings.HasPrefix(name, "@") {
		return false
	}
	base, _, _ := strings.Cut(name, "/")
	_, ok := nodeBuiltins[base]
	return ok
}
