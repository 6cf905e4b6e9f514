package section

import (
	"fmt"
	"strings"
)

// Ref addresses one section version inside a resume configuration without
// embedding its content. The wire encoding is "key:flavor:version"; the
// type is inferred from which configuration list the ref appears in.
type Ref struct {
	Key     string `json:"key"`
	Flavor  string `json:"flavor"`
	Version string `json:"version"`
}

// ParseRef decodes a "key:flavor:version" string.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Ref{}, fmt.Errorf("invalid section ref %q: want key:flavor:version", s)
	}
	for i, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("invalid section ref %q: empty component %d", s, i)
		}
	}
	return Ref{Key: parts[0], Flavor: parts[1], Version: parts[2]}, nil
}

// String encodes the ref in its wire form.
func (r Ref) String() string {
	return r.Key + ":" + r.Flavor + ":" + r.Version
}

// ID identifies a flavor line of a section, ignoring versions. Temporary
// edits are keyed by ID because they always override whatever the current
// working version is. The wire encoding is "type:key:flavor".
type ID struct {
	Type   Type   `json:"type"`
	Key    string `json:"key"`
	Flavor string `json:"flavor"`
}

// ParseID decodes a "type:key:flavor" string.
func ParseID(s string) (ID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("invalid section id %q: want type:key:flavor", s)
	}
	typ := Type(parts[0])
	if !typ.Valid() {
		return ID{}, fmt.Errorf("invalid section id %q: unknown type %q", s, parts[0])
	}
	if parts[1] == "" || parts[2] == "" {
		return ID{}, fmt.Errorf("invalid section id %q: empty component", s)
	}
	return ID{Type: typ, Key: parts[1], Flavor: parts[2]}, nil
}

// String encodes the id in its wire form.
func (id ID) String() string {
	return string(id.Type) + ":" + id.Key + ":" + id.Flavor
}

// Ref returns the ref for this flavor line pinned to the given version.
func (id ID) Ref(version string) Ref {
	return Ref{Key: id.Key, Flavor: id.Flavor, Version: version}
}
