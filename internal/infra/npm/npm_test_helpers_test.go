package npm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, path string, manifest any) {
	t.Helper()
	payload, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	writeRaw(t, path, string(payload))
}

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// recordMap flattens a record for comparisons.
func recordMap(r *Record) map[string]string {
	out := map[string]string{}
	for _, name := range r.Names() {
		out[name] = r.Version(name)
	}
	return out
}

func installPackage(t *testing.T, nodeModules, name string, manifest Manifest) {
	t.Helper()
	manifest.Name = name
	writeManifest(t, InstalledManifestPath(nodeModules, name), manifest)
}
