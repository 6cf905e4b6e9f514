package jd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmartin/resume-dash/internal/llm"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// Analyzer turns a job description plus the user's library into a
// suggested selection. The model proposes; the analyzer verifies every
// suggestion against the library and applies the user's per-key configs,
// so an hallucinated key can never reach the selection.
type Analyzer struct {
	Client llm.Client
	Model  string
}

// NewAnalyzer creates an analyzer on the default analysis model.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{Client: client, Model: llm.ModelAnalysis}
}

// rawSuggestions is the JSON shape requested from the model.
type rawSuggestions struct {
	SkillsFlavor    string          `json:"skills_flavor"`
	Experiences     []rawSuggestion `json:"experiences"`
	Projects        []rawSuggestion `json:"projects"`
	MissingKeywords []string        `json:"missing_keywords"`
}

type rawSuggestion struct {
	Key    string  `json:"key"`
	Flavor string  `json:"flavor"`
	Score  float64 `json:"score"`
}

// Analyze produces the suggested selection and missing-keyword list.
func (a *Analyzer) Analyze(ctx context.Context, lib *section.Library, configs []types.SectionConfig, jobDescription, instructions string) (*AnalyzeResponse, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	prompt := buildAnalyzePrompt(lib, jobDescription, instructions)
	raw, err := a.Client.GenerateJSON(ctx, a.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	var parsed rawSuggestions
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	cfgIndex := indexConfigs(configs)
	resp := &AnalyzeResponse{
		Suggestions: Suggestions{
			SkillsFlavor: sanitizeSkills(lib, parsed.SkillsFlavor),
			Experiences:  sanitize(lib, section.TypeExperience, parsed.Experiences, cfgIndex),
			Projects:     sanitize(lib, section.TypeProject, parsed.Projects, cfgIndex),
		},
		MissingKeywords: parsed.MissingKeywords,
		AllSections:     applyConfigs(lib, cfgIndex),
	}
	if resp.MissingKeywords == nil {
		resp.MissingKeywords = []string{}
	}
	return resp, nil
}

// RecalculateKeywords recomputes the missing-keyword list against an
// explicit selection, honoring temp-edited content. When no client is
// available the deterministic token diff is used alone; with one, the
// model prunes the diff down to terms actually worth adding.
func (a *Analyzer) RecalculateKeywords(ctx context.Context, jobDescription string, contents []section.Content) ([]string, error) {
	missing := MissingKeywords(jobDescription, contents)
	if a == nil || a.Client == nil || len(missing) == 0 {
		return missing, nil
	}

	prompt := fmt.Sprintf(`A candidate's resume is missing these terms that recur in a job description:
%s

Job description:
%s

Return a JSON array of the terms above that represent real skills, tools, or qualifications worth adding to the resume. Drop generic filler. Keep the original spelling.`,
		strings.Join(missing, ", "), jobDescription)

	raw, err := a.Client.GenerateJSON(ctx, a.Model, prompt)
	if err != nil {
		// The diff is still useful without the refinement pass.
		return missing, nil
	}
	var refined []string
	if err := json.Unmarshal([]byte(raw), &refined); err != nil || len(refined) == 0 {
		return missing, nil
	}
	return refined, nil
}

func buildAnalyzePrompt(lib *section.Library, jobDescription, instructions string) string {
	var sb strings.Builder
	sb.WriteString("You select resume sections for a job application.\n\n")
	sb.WriteString("Available experiences:\n")
	writeInfos(&sb, lib.Experiences)
	sb.WriteString("\nAvailable projects:\n")
	writeInfos(&sb, lib.Projects)
	sb.WriteString("\nAvailable skills flavors: ")
	for i, f := range lib.Skills {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Flavor)
	}
	sb.WriteString("\n\nJob description:\n")
	sb.WriteString(jobDescription)
	if strings.TrimSpace(instructions) != "" {
		sb.WriteString("\n\nAdditional instructions:\n")
		sb.WriteString(instructions)
	}
	sb.WriteString(`

Pick the sections most relevant to this job. Use only keys and flavors listed above. Respond with JSON:
{"skills_flavor": "...", "experiences": [{"key": "...", "flavor": "...", "score": 0.0}], "projects": [{"key": "...", "flavor": "...", "score": 0.0}], "missing_keywords": ["..."]}
missing_keywords are recurring job-description terms the selected content does not mention. Order experiences and projects most relevant first.`)
	return sb.String()
}

func writeInfos(sb *strings.Builder, infos []section.Info) {
	for _, info := range infos {
		for _, f := range info.Flavors {
			fmt.Fprintf(sb, "- %s (flavor %q): %s\n", info.Key, f.Flavor, summarize(f.Content))
		}
	}
}

// summarize compresses content to its first bullets so the prompt stays
// small even with a large library.
func summarize(c section.Content) string {
	parts := make([]string, 0, 3)
	if c.Title != "" {
		parts = append(parts, c.Title)
	}
	n := len(c.Bullets)
	if n > 2 {
		n = 2
	}
	parts = append(parts, c.Bullets[:n]...)
	return strings.Join(parts, " | ")
}

func indexConfigs(configs []types.SectionConfig) map[section.ID]types.SectionConfig {
	out := make(map[section.ID]types.SectionConfig, len(configs))
	for _, c := range configs {
		out[section.ID{Type: c.SectionType, Key: c.SectionKey}] = c
	}
	return out
}

// sanitize verifies model suggestions against the library, fills in the
// current version for each pin, and enforces the user's per-key configs:
// "never" keys are dropped, "always" keys are appended when missing, and
// fixed flavors override whatever the model picked.
func sanitize(lib *section.Library, typ section.Type, raw []rawSuggestion, cfgs map[section.ID]types.SectionConfig) []Suggestion {
	out := []Suggestion{}
	seen := map[string]bool{}
	for _, r := range raw {
		cfg := cfgs[section.ID{Type: typ, Key: r.Key}]
		if cfg.Priority == section.PriorityNever {
			continue
		}
		flavor := r.Flavor
		if cfg.FixedFlavor != "" {
			flavor = cfg.FixedFlavor
		}
		fi, ok := lib.Flavor(typ, r.Key, flavor)
		if !ok {
			// Unknown flavor but real key: fall back to the default flavor.
			fi, ok = lib.DefaultFlavor(typ, r.Key)
			if !ok {
				continue
			}
		}
		if seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		out = append(out, Suggestion{
			Key: r.Key, Flavor: fi.Flavor, Version: fi.Version,
			Score:  r.Score,
			Pinned: cfg.Priority == section.PriorityAlways,
		})
	}

	// Pin "always" keys the model skipped.
	var list []section.Info
	if typ == section.TypeExperience {
		list = lib.Experiences
	} else {
		list = lib.Projects
	}
	for _, info := range list {
		cfg := cfgs[section.ID{Type: typ, Key: info.Key}]
		if cfg.Priority != section.PriorityAlways || seen[info.Key] {
			continue
		}
		flavor := cfg.FixedFlavor
		fi, ok := lib.Flavor(typ, info.Key, flavor)
		if !ok {
			fi, ok = lib.DefaultFlavor(typ, info.Key)
			if !ok {
				continue
			}
		}
		seen[info.Key] = true
		out = append(out, Suggestion{Key: info.Key, Flavor: fi.Flavor, Version: fi.Version, Pinned: true})
	}
	return out
}

func sanitizeSkills(lib *section.Library, flavor string) string {
	if _, ok := lib.SkillsFlavor(flavor); ok {
		return flavor
	}
	if len(lib.Skills) > 0 {
		return lib.Skills[0].Flavor
	}
	return ""
}

// applyConfigs annotates the library with per-key priority and fixed
// flavor for the matcher UI.
func applyConfigs(lib *section.Library, cfgs map[section.ID]types.SectionConfig) section.Library {
	annotated := section.Library{
		Experiences: annotateInfos(section.TypeExperience, lib.Experiences, cfgs),
		Projects:    annotateInfos(section.TypeProject, lib.Projects, cfgs),
		Skills:      lib.Skills,
	}
	return annotated
}

func annotateInfos(typ section.Type, infos []section.Info, cfgs map[section.ID]types.SectionConfig) []section.Info {
	out := make([]section.Info, len(infos))
	copy(out, infos)
	for i := range out {
		if cfg, ok := cfgs[section.ID{Type: typ, Key: out[i].Key}]; ok {
			if cfg.Priority.Valid() {
				out[i].Priority = cfg.Priority
			}
			out[i].FixedFlavor = cfg.FixedFlavor
		}
	}
	return out
}
