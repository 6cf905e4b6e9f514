package jd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// cannedClient returns fixed responses without touching the network.
type cannedClient struct {
	json string
	err  error
}

func (c *cannedClient) GenerateText(context.Context, string, string) (string, error) {
	return c.json, c.err
}

func (c *cannedClient) GenerateJSON(context.Context, string, string) (string, error) {
	return c.json, c.err
}

func (c *cannedClient) Close() error { return nil }

func testLibrary() *section.Library {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return section.BuildLibrary([]section.Section{
		{Type: section.TypeExperience, Key: "google", Flavor: "swe", Version: "1.2", IsCurrent: true,
			Content: section.Content{Bullets: []string{"b"}}, CreatedAt: base},
		{Type: section.TypeExperience, Key: "meta", Flavor: "ml", Version: "2.0", IsCurrent: true,
			Content: section.Content{Bullets: []string{"b"}}, CreatedAt: base.Add(time.Minute)},
		{Type: section.TypeProject, Key: "raytracer", Flavor: "graphics", Version: "1.0", IsCurrent: true,
			Content: section.Content{Bullets: []string{"b"}}, CreatedAt: base.Add(2 * time.Minute)},
		{Type: section.TypeSkills, Key: "skills", Flavor: "backend", Version: "1.0", IsCurrent: true,
			CreatedAt: base},
	})
}

func TestAnalyze_SanitizesSuggestions(t *testing.T) {
	client := &cannedClient{json: `{
		"skills_flavor": "backend",
		"experiences": [
			{"key": "google", "flavor": "swe", "score": 0.9},
			{"key": "hallucinated", "flavor": "x", "score": 0.8},
			{"key": "meta", "flavor": "wrong-flavor", "score": 0.7}
		],
		"projects": [],
		"missing_keywords": ["kubernetes"]
	}`}

	a := NewAnalyzer(client)
	resp, err := a.Analyze(context.Background(), testLibrary(), nil, "a job", "")
	require.NoError(t, err)

	require.Len(t, resp.Suggestions.Experiences, 2)
	assert.Equal(t, "google", resp.Suggestions.Experiences[0].Key)
	assert.Equal(t, "1.2", resp.Suggestions.Experiences[0].Version)
	// Unknown flavor on a real key falls back to the default flavor.
	assert.Equal(t, "meta", resp.Suggestions.Experiences[1].Key)
	assert.Equal(t, "ml", resp.Suggestions.Experiences[1].Flavor)
	assert.Equal(t, []string{"kubernetes"}, resp.MissingKeywords)
	assert.Equal(t, "backend", resp.Suggestions.SkillsFlavor)
}

func TestAnalyze_AppliesSectionConfigs(t *testing.T) {
	client := &cannedClient{json: `{
		"skills_flavor": "backend",
		"experiences": [{"key": "google", "flavor": "swe", "score": 0.9}],
		"projects": [],
		"missing_keywords": []
	}`}
	configs := []types.SectionConfig{
		{SectionType: section.TypeExperience, SectionKey: "google", Priority: section.PriorityNever},
		{SectionType: section.TypeExperience, SectionKey: "meta", Priority: section.PriorityAlways},
	}

	a := NewAnalyzer(client)
	resp, err := a.Analyze(context.Background(), testLibrary(), configs, "a job", "")
	require.NoError(t, err)

	// "never" key dropped, "always" key pinned in despite the model skipping it.
	require.Len(t, resp.Suggestions.Experiences, 1)
	assert.Equal(t, "meta", resp.Suggestions.Experiences[0].Key)
	assert.True(t, resp.Suggestions.Experiences[0].Pinned)

	// The annotated library carries the priority for the UI.
	assert.Equal(t, section.PriorityNever, resp.AllSections.Experiences[0].Priority)
}

func TestAnalyze_UnknownSkillsFlavorFallsBack(t *testing.T) {
	client := &cannedClient{json: `{"skills_flavor": "nope", "experiences": [], "projects": [], "missing_keywords": []}`}
	a := NewAnalyzer(client)
	resp, err := a.Analyze(context.Background(), testLibrary(), nil, "a job", "")
	require.NoError(t, err)
	assert.Equal(t, "backend", resp.Suggestions.SkillsFlavor)
}

func TestAnalyze_EmptyJobDescription(t *testing.T) {
	a := NewAnalyzer(&cannedClient{})
	_, err := a.Analyze(context.Background(), testLibrary(), nil, "   ", "")
	assert.Error(t, err)
}

func TestAnalyze_BadModelJSON(t *testing.T) {
	a := NewAnalyzer(&cannedClient{json: "not json"})
	_, err := a.Analyze(context.Background(), testLibrary(), nil, "a job", "")
	assert.Error(t, err)
}

func TestRecalculateKeywords_RefinementPrunes(t *testing.T) {
	a := NewAnalyzer(&cannedClient{json: `["kubernetes"]`})
	got, err := a.RecalculateKeywords(context.Background(), "kubernetes kubernetes helm helm", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, got)
}

func TestRecalculateKeywords_NoClientUsesDiff(t *testing.T) {
	var a *Analyzer
	got, err := a.RecalculateKeywords(context.Background(), "kubernetes kubernetes", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, got)
}

func TestRecalculateKeywords_BadRefinementKeepsDiff(t *testing.T) {
	a := NewAnalyzer(&cannedClient{json: "not json"})
	got, err := a.RecalculateKeywords(context.Background(), "kubernetes kubernetes", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, got)
}
