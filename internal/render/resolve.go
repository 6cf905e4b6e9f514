package render

import (
	"fmt"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// ResolvedSection is one section with its content pinned down for layout.
type ResolvedSection struct {
	Ref     section.Ref
	Type    section.Type
	Content section.Content
}

// Document is a fully resolved resume ready for templating. Slice order
// matches the config order and drives layout order.
type Document struct {
	Job         *types.JobInfo
	Skills      *ResolvedSection
	Experiences []ResolvedSection
	Projects    []ResolvedSection
}

// Overlay maps a wire section id ("type:key:flavor") to replacement content.
// Entries override stored content at render time without touching the
// stored version the ref points at.
type Overlay map[string]section.Content

// Resolve materializes a resume config against the stored sections. Every
// ref must match a stored (type, key, flavor, version) exactly; a ref that
// resolves to nothing is an error, never a silently dropped section.
func Resolve(cfg resume.Config, sections []section.Section, overlay Overlay, job *types.JobInfo) (*Document, error) {
	skillsFlavor, expRefs, projRefs, err := cfg.Decode()
	if err != nil {
		return nil, err
	}

	byRef := make(map[string]*section.Section, len(sections))
	var skills []*section.Section
	for i := range sections {
		s := &sections[i]
		if s.Type == section.TypeSkills {
			if s.IsCurrent {
				skills = append(skills, s)
			}
			continue
		}
		k := fmt.Sprintf("%s:%s:%s:%s", s.Type, s.Key, s.Flavor, s.Version)
		byRef[k] = s
	}

	doc := &Document{Job: job}

	if skillsFlavor != "" {
		var match *section.Section
		for _, s := range skills {
			if s.Flavor == skillsFlavor {
				match = s
				break
			}
		}
		if match == nil {
			return nil, fmt.Errorf("skills flavor %q has no current version", skillsFlavor)
		}
		rs := ResolvedSection{
			Ref:     section.Ref{Key: match.Key, Flavor: match.Flavor, Version: match.Version},
			Type:    section.TypeSkills,
			Content: match.Content,
		}
		applyOverlay(&rs, overlay)
		doc.Skills = &rs
	}

	if doc.Experiences, err = resolveRefs(section.TypeExperience, expRefs, byRef, overlay); err != nil {
		return nil, err
	}
	if doc.Projects, err = resolveRefs(section.TypeProject, projRefs, byRef, overlay); err != nil {
		return nil, err
	}
	return doc, nil
}

func resolveRefs(typ section.Type, refs []section.Ref, byRef map[string]*section.Section, overlay Overlay) ([]ResolvedSection, error) {
	out := make([]ResolvedSection, 0, len(refs))
	for _, ref := range refs {
		s, ok := byRef[fmt.Sprintf("%s:%s:%s:%s", typ, ref.Key, ref.Flavor, ref.Version)]
		if !ok {
			return nil, fmt.Errorf("%s %s: version not found", typ, ref)
		}
		rs := ResolvedSection{Ref: ref, Type: typ, Content: s.Content}
		applyOverlay(&rs, overlay)
		out = append(out, rs)
	}
	return out, nil
}

func applyOverlay(rs *ResolvedSection, overlay Overlay) {
	if overlay == nil {
		return
	}
	id := section.ID{Type: rs.Type, Key: rs.Ref.Key, Flavor: rs.Ref.Flavor}
	if c, ok := overlay[id.String()]; ok {
		rs.Content = c
	}
}
