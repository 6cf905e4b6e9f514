// Package selection tracks which sections, and which flavor and version of
// each, compose the current resume draft.
package selection

import (
	"fmt"

	"github.com/jmartin/resume-dash/internal/section"
)

// Selection is the draft state: ordered experience and project pins plus
// the single chosen skills flavor. List order is layout order in the
// generated document, not a display convenience.
type Selection struct {
	SkillsFlavor string        `json:"skills_flavor"`
	Experiences  []section.Ref `json:"experiences"`
	Projects     []section.Ref `json:"projects"`
}

// list returns the pin list for a type. Skills and education are not
// list-selected in this model.
func (s *Selection) list(typ section.Type) *[]section.Ref {
	switch typ {
	case section.TypeExperience:
		return &s.Experiences
	case section.TypeProject:
		return &s.Projects
	}
	return nil
}

// indexOf returns the position of key in the list for typ, or -1.
func (s *Selection) indexOf(typ section.Type, key string) int {
	list := s.list(typ)
	if list == nil {
		return -1
	}
	for i, ref := range *list {
		if ref.Key == key {
			return i
		}
	}
	return -1
}

// Selected reports whether key is in the list for typ.
func (s *Selection) Selected(typ section.Type, key string) bool {
	return s.indexOf(typ, key) >= 0
}

// Get returns the pin for key, if selected.
func (s *Selection) Get(typ section.Type, key string) (section.Ref, bool) {
	i := s.indexOf(typ, key)
	if i < 0 {
		return section.Ref{}, false
	}
	return (*s.list(typ))[i], true
}

// Toggle adds key with its default flavor (the first flavor the backend
// returned) when absent, and removes it when present. Toggling a key the
// library does not know is a no-op. Returns true when the key is selected
// after the call.
func (s *Selection) Toggle(lib *section.Library, typ section.Type, key string) bool {
	list := s.list(typ)
	if list == nil {
		return false
	}
	if i := s.indexOf(typ, key); i >= 0 {
		*list = append((*list)[:i], (*list)[i+1:]...)
		return false
	}
	def, ok := lib.DefaultFlavor(typ, key)
	if !ok {
		return false
	}
	*list = append(*list, section.Ref{Key: key, Flavor: def.Flavor, Version: def.Version})
	return true
}

// SetFlavor repins an already-selected key to a different flavor and
// version. It has no effect when the key is not selected.
func (s *Selection) SetFlavor(typ section.Type, key, flavor, version string) bool {
	i := s.indexOf(typ, key)
	if i < 0 {
		return false
	}
	(*s.list(typ))[i] = section.Ref{Key: key, Flavor: flavor, Version: version}
	return true
}

// Reorder moves the entry at from to position to. Order feeds directly
// into the resume configuration lists.
func (s *Selection) Reorder(typ section.Type, from, to int) error {
	list := s.list(typ)
	if list == nil {
		return fmt.Errorf("type %s is not reorderable", typ)
	}
	n := len(*list)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder out of range: from=%d to=%d len=%d", from, to, n)
	}
	if from == to {
		return nil
	}
	moved := (*list)[from]
	rest := append((*list)[:from:from], (*list)[from+1:]...)
	*list = append(rest[:to:to], append([]section.Ref{moved}, rest[to:]...)...)
	return nil
}

// LoadRefs replaces the selection with a decoded preset. Keys absent from
// the fetched library are skipped silently; the preset's saved order is
// reconstructed for the rest. Previously selected keys the preset does not
// mention are appended afterward in their pre-existing order, so loading a
// preset over a draft does not silently drop work in progress.
func (s *Selection) LoadRefs(lib *section.Library, skillsFlavor string, experiences, projects []section.Ref) {
	if _, ok := lib.SkillsFlavor(skillsFlavor); ok {
		s.SkillsFlavor = skillsFlavor
	}
	s.Experiences = mergeRefs(lib, section.TypeExperience, experiences, s.Experiences)
	s.Projects = mergeRefs(lib, section.TypeProject, projects, s.Projects)
}

func mergeRefs(lib *section.Library, typ section.Type, loaded, previous []section.Ref) []section.Ref {
	out := make([]section.Ref, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, ref := range loaded {
		if _, ok := lib.Flavor(typ, ref.Key, ref.Flavor); !ok {
			continue
		}
		if seen[ref.Key] {
			continue
		}
		seen[ref.Key] = true
		out = append(out, ref)
	}
	for _, ref := range previous {
		if seen[ref.Key] {
			continue
		}
		if _, ok := lib.Flavor(typ, ref.Key, ref.Flavor); !ok {
			continue
		}
		seen[ref.Key] = true
		out = append(out, ref)
	}
	return out
}

// Unavailable returns the pins whose exact version no longer exists in the
// freshly fetched library. Callers must surface these as unavailable
// rather than substitute another version.
func (s *Selection) Unavailable(lib *section.Library) []section.Ref {
	var out []section.Ref
	for _, ref := range s.Experiences {
		if !lib.HasVersion(section.TypeExperience, ref) {
			out = append(out, ref)
		}
	}
	for _, ref := range s.Projects {
		if !lib.HasVersion(section.TypeProject, ref) {
			out = append(out, ref)
		}
	}
	return out
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return len(s.Experiences) == 0 && len(s.Projects) == 0 && s.SkillsFlavor == ""
}
