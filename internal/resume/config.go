// Package resume builds the wire-format resume configuration from a
// selection and reconciles temporary edits against the content library at
// generation time.
package resume

import (
	"fmt"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/selection"
)

// SkillsVersion is the version literal encoded for the skills ref. The
// original builder hardcoded "1.0"; skills flavors are currently never
// versioned past that.
const SkillsVersion = section.InitialVersion

// Config is the object sent to the PDF generator. List order drives layout
// order in the generated document.
type Config struct {
	Skills      string   `json:"skills,omitempty"`
	Experiences []string `json:"experiences"`
	Projects    []string `json:"projects"`
}

// Build serializes a selection into its wire form. The output arrays match
// the selection's display order at the moment of the call.
func Build(sel selection.Selection) Config {
	cfg := Config{
		Experiences: make([]string, 0, len(sel.Experiences)),
		Projects:    make([]string, 0, len(sel.Projects)),
	}
	if sel.SkillsFlavor != "" {
		cfg.Skills = sel.SkillsFlavor + ":" + SkillsVersion
	}
	for _, ref := range sel.Experiences {
		cfg.Experiences = append(cfg.Experiences, ref.String())
	}
	for _, ref := range sel.Projects {
		cfg.Projects = append(cfg.Projects, ref.String())
	}
	return cfg
}

// Decode parses the wire form back into refs. The skills entry decodes to
// its flavor only; the version literal is dropped.
func (c Config) Decode() (skillsFlavor string, experiences, projects []section.Ref, err error) {
	if c.Skills != "" {
		flavor, _, ok := splitSkills(c.Skills)
		if !ok {
			return "", nil, nil, fmt.Errorf("invalid skills ref %q", c.Skills)
		}
		skillsFlavor = flavor
	}
	experiences, err = parseRefs(c.Experiences)
	if err != nil {
		return "", nil, nil, fmt.Errorf("invalid experience ref: %w", err)
	}
	projects, err = parseRefs(c.Projects)
	if err != nil {
		return "", nil, nil, fmt.Errorf("invalid project ref: %w", err)
	}
	return skillsFlavor, experiences, projects, nil
}

// Load replaces sel with the decoded config, merged against the freshly
// fetched library per the selection rules.
func Load(lib *section.Library, cfg Config, sel *selection.Selection) error {
	skillsFlavor, exps, projs, err := cfg.Decode()
	if err != nil {
		return err
	}
	sel.LoadRefs(lib, skillsFlavor, exps, projs)
	return nil
}

func parseRefs(encoded []string) ([]section.Ref, error) {
	out := make([]section.Ref, 0, len(encoded))
	for _, s := range encoded {
		ref, err := section.ParseRef(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func splitSkills(s string) (flavor, version string, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			if i == 0 || i == len(s)-1 {
				return "", "", false
			}
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
