package resume

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/selection"
)

func TestBuild(t *testing.T) {
	sel := selection.Selection{
		SkillsFlavor: "backend",
		Experiences: []section.Ref{
			{Key: "google", Flavor: "swe", Version: "1.2"},
			{Key: "meta", Flavor: "ml", Version: "2.0"},
		},
		Projects: []section.Ref{},
	}

	cfg := Build(sel)
	assert.Equal(t, "backend:1.0", cfg.Skills)
	assert.Equal(t, []string{"google:swe:1.2", "meta:ml:2.0"}, cfg.Experiences)
	assert.Empty(t, cfg.Projects)
	assert.NotNil(t, cfg.Projects)
}

func TestBuild_PreservesOrderAndCounts(t *testing.T) {
	sel := selection.Selection{
		Experiences: []section.Ref{
			{Key: "c", Flavor: "f", Version: "1.0"},
			{Key: "a", Flavor: "f", Version: "1.0"},
			{Key: "b", Flavor: "f", Version: "1.0"},
		},
		Projects: []section.Ref{
			{Key: "p1", Flavor: "f", Version: "1.0"},
		},
	}

	cfg := Build(sel)
	assert.Len(t, cfg.Experiences, 3)
	assert.Len(t, cfg.Projects, 1)
	assert.Equal(t, []string{"c:f:1.0", "a:f:1.0", "b:f:1.0"}, cfg.Experiences)
}

func TestBuild_NoSkillsFlavor(t *testing.T) {
	cfg := Build(selection.Selection{})
	assert.Empty(t, cfg.Skills)
}

func TestDecode(t *testing.T) {
	cfg := Config{
		Skills:      "backend:1.0",
		Experiences: []string{"google:swe:1.2"},
		Projects:    []string{"raytracer:graphics:1.0"},
	}

	flavor, exps, projs, err := cfg.Decode()
	require.NoError(t, err)
	assert.Equal(t, "backend", flavor)
	assert.Equal(t, []section.Ref{{Key: "google", Flavor: "swe", Version: "1.2"}}, exps)
	assert.Equal(t, []section.Ref{{Key: "raytracer", Flavor: "graphics", Version: "1.0"}}, projs)
}

func TestDecode_Invalid(t *testing.T) {
	_, _, _, err := Config{Skills: "backend"}.Decode()
	assert.Error(t, err)

	_, _, _, err = Config{Experiences: []string{"google:swe"}}.Decode()
	assert.Error(t, err)
}

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

func TestLoadRoundTrip(t *testing.T) {
	lib := testLibrary()
	original := Config{
		Skills:      "backend:1.0",
		Experiences: []string{"google:swe:1.2", "meta:ml:2.0"},
		Projects:    []string{"raytracer:graphics:1.0"},
	}

	var sel selection.Selection
	require.NoError(t, Load(lib, original, &sel))

	// Loading then rebuilding with no further edits reproduces the preset.
	assert.Equal(t, original, Build(sel))
}

func TestLoad_SkipsKeysMissingFromLibrary(t *testing.T) {
	lib := testLibrary()
	cfg := Config{
		Experiences: []string{"gone:swe:1.0", "google:swe:1.2"},
		Projects:    []string{},
	}

	var sel selection.Selection
	require.NoError(t, Load(lib, cfg, &sel))
	require.Len(t, sel.Experiences, 1)
	assert.Equal(t, "google", sel.Experiences[0].Key)
}
