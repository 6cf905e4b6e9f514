// Package jd matches a job description against the user's content library:
// it suggests a section selection, reports keywords the selection misses,
// and recomputes that gap as the selection changes.
package jd

import "github.com/jmartin/resume-dash/internal/section"

// Suggestion is one suggested section pin.
type Suggestion struct {
	Key     string  `json:"key"`
	Flavor  string  `json:"flavor"`
	Version string  `json:"version"`
	Score   float64 `json:"score,omitempty"`
	Pinned  bool    `json:"pinned,omitempty"`
}

// Suggestions is the full suggested selection.
type Suggestions struct {
	SkillsFlavor string       `json:"skills_flavor"`
	Experiences  []Suggestion `json:"experiences"`
	Projects     []Suggestion `json:"projects"`
}

// AnalyzeResponse is the wire shape of /api/jd/analyze: the suggested
// selection, the keywords it misses, and the full library for the matcher
// UI to render.
type AnalyzeResponse struct {
	Suggestions     Suggestions     `json:"suggestions"`
	MissingKeywords []string        `json:"missing_keywords"`
	AllSections     section.Library `json:"all_sections"`
}

// SelectedSection is one selected pin in a recalculate request.
type SelectedSection struct {
	Type    section.Type `json:"type"`
	Key     string       `json:"key"`
	Flavor  string       `json:"flavor"`
	Version string       `json:"version"`
}
