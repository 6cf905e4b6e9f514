package section

import "sort"

// Priority controls how the JD analyzer treats a key: "always" keys are
// pinned into every suggestion, "never" keys are excluded, "normal" keys
// compete on relevance.
type Priority string

const (
	PriorityAlways Priority = "always"
	PriorityNormal Priority = "normal"
	PriorityNever  Priority = "never"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityAlways || p == PriorityNormal || p == PriorityNever
}

// FlavorInfo is one current flavor of a key, with its pinned version and
// content, as exposed in the all_sections wire shape.
type FlavorInfo struct {
	Flavor  string  `json:"flavor"`
	Version string  `json:"version"`
	Content Content `json:"content"`
}

// Info groups the current flavors of one key. Flavor order is
// backend-determined and meaningful: the first flavor is the default used
// when the key is toggled into a selection.
type Info struct {
	Key         string       `json:"key"`
	Flavors     []FlavorInfo `json:"flavors"`
	Priority    Priority     `json:"priority"`
	FixedFlavor string       `json:"fixed_flavor,omitempty"`
}

// Library indexes the current versions of a user's sections, grouped the
// way the selection UI consumes them.
type Library struct {
	Experiences []Info       `json:"experiences"`
	Projects    []Info       `json:"projects"`
	Skills      []FlavorInfo `json:"skills"`

	// versions records every version seen at build time, current or not,
	// keyed "type:key:flavor". Pins to demoted versions still resolve at
	// generation, so availability checks must see them too.
	versions map[string]map[string]bool
}

// BuildLibrary groups the current sections of each (type, key, flavor)
// line into a Library. Non-current versions stay out of the flavor lists
// but are still indexed for HasVersion. Keys and flavors keep their
// creation order (oldest first), which is the order the original backend
// returned them in.
func BuildLibrary(sections []Section) *Library {
	lib := &Library{
		Experiences: []Info{},
		Projects:    []Info{},
		Skills:      []FlavorInfo{},
		versions:    map[string]map[string]bool{},
	}
	// Stable grouping: sort by creation time, then walk in order.
	ordered := make([]Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	index := map[Type]map[string]int{
		TypeExperience: {},
		TypeProject:    {},
	}
	for _, s := range ordered {
		line := string(s.Type) + ":" + s.Key + ":" + s.Flavor
		if lib.versions[line] == nil {
			lib.versions[line] = map[string]bool{}
		}
		lib.versions[line][s.Version] = true

		if !s.IsCurrent {
			continue
		}
		fi := FlavorInfo{Flavor: s.Flavor, Version: s.Version, Content: s.Content}
		switch s.Type {
		case TypeExperience, TypeProject:
			list := &lib.Experiences
			if s.Type == TypeProject {
				list = &lib.Projects
			}
			pos, ok := index[s.Type][s.Key]
			if !ok {
				*list = append(*list, Info{Key: s.Key, Priority: PriorityNormal})
				pos = len(*list) - 1
				index[s.Type][s.Key] = pos
			}
			(*list)[pos].Flavors = append((*list)[pos].Flavors, fi)
		case TypeSkills:
			lib.Skills = append(lib.Skills, fi)
		}
	}
	return lib
}

// Find returns the info for a key of the given type, or nil when the key
// is not in the library.
func (l *Library) Find(typ Type, key string) *Info {
	var list []Info
	switch typ {
	case TypeExperience:
		list = l.Experiences
	case TypeProject:
		list = l.Projects
	default:
		return nil
	}
	for i := range list {
		if list[i].Key == key {
			return &list[i]
		}
	}
	return nil
}

// DefaultFlavor returns the first flavor of a key, the one selected when
// the key is toggled on. ok is false when the key has no flavors.
func (l *Library) DefaultFlavor(typ Type, key string) (FlavorInfo, bool) {
	info := l.Find(typ, key)
	if info == nil || len(info.Flavors) == 0 {
		return FlavorInfo{}, false
	}
	return info.Flavors[0], true
}

// Flavor returns the named flavor of a key.
func (l *Library) Flavor(typ Type, key, flavor string) (FlavorInfo, bool) {
	info := l.Find(typ, key)
	if info == nil {
		return FlavorInfo{}, false
	}
	for _, f := range info.Flavors {
		if f.Flavor == flavor {
			return f, true
		}
	}
	return FlavorInfo{}, false
}

// HasVersion reports whether the exact (key, flavor, version) pin still
// exists. Demoted versions count: generation resolves them, so a pin to
// one is stale but not unavailable. Libraries decoded from the wire carry
// no version index and fall back to checking the current flavor version.
func (l *Library) HasVersion(typ Type, ref Ref) bool {
	if l.versions != nil {
		return l.versions[string(typ)+":"+ref.Key+":"+ref.Flavor][ref.Version]
	}
	f, ok := l.Flavor(typ, ref.Key, ref.Flavor)
	return ok && f.Version == ref.Version
}

// SkillsFlavor returns the named skills flavor.
func (l *Library) SkillsFlavor(flavor string) (FlavorInfo, bool) {
	for _, f := range l.Skills {
		if f.Flavor == flavor {
			return f, true
		}
	}
	return FlavorInfo{}, false
}
