package workorder

import (
	"maps"
	"strings"
)

// Metadata is the status-specific data captured by a transition, e.g. the part
// being waited on or the external workshop an order was sent to.
type Metadata map[string]string

// Clone returns an independent copy; a nil receiver yields an empty map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}

// Value returns the trimmed value for key.
func (m Metadata) Value(key string) string {
	return strings.TrimSpace(m[key])
}

// Has reports whether key holds a non-blank value.
func (m Metadata) Has(key string) bool {
	return m.Value(key) != ""
}

// Compact drops blank values and trims the rest.
func (m Metadata) Compact() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}
