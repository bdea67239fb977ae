// Where: internal/infra/npm/record.go
// What: Insertion-ordered package name -> version map.
// Why: Preserve discovery order for install commands while enforcing first-writer-wins.
package npm

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Record maps package names to versions in discovery order.
// The first version written for a name is kept.
type Record struct {
	names    []string
	versions map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{versions: map[string]string{}}
}

// Add stores name@version unless name is already present.
// It reports whether the entry was added.
func (r *Record) Add(name, version string) bool {
	if r.versions == nil {
		r.versions = map[string]string{}
	}
	if _, ok := r.versions[name]; ok {
		return false
	}
	r.names = append(r.names, name)
	r.versions[name] = version
	return true
}

func (r *Record) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.versions[name]
	return ok
}

func (r *Record) Version(name string) string {
	if r == nil {
		return ""
	}
	return r.versions[name]
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns package names in discovery order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Specs renders `name@version` tokens in discovery order.
func (r *Record) Specs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name+"@"+r.versions[name])
	}
	return out
}

// MarshalJSON encodes the record as an object with sorted keys, the order
// npm itself writes dependency maps in. Specs keeps discovery order for the
// install command line.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.SortedNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		version, err := json.Marshal(r.versions[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(version)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SortedNames returns package names in lexical order.
func (r *Record) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
