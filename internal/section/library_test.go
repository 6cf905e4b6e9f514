package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libSections() []Section {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Section{
		{Type: TypeExperience, Key: "google", Flavor: "swe", Version: "1.2", IsCurrent: true,
			Content: Content{Title: "SWE", Bullets: []string{"built things"}}, CreatedAt: base},
		{Type: TypeExperience, Key: "google", Flavor: "systems", Version: "1.0", IsCurrent: true,
			Content: Content{Bullets: []string{"kept things up"}}, CreatedAt: base.Add(time.Hour)},
		{Type: TypeExperience, Key: "google", Flavor: "swe", Version: "1.1", IsCurrent: false,
			Content: Content{Bullets: []string{"old"}}, CreatedAt: base.Add(-time.Hour)},
		{Type: TypeExperience, Key: "meta", Flavor: "ml", Version: "2.0", IsCurrent: true,
			Content: Content{Bullets: []string{"trained models"}}, CreatedAt: base.Add(2 * time.Hour)},
		{Type: TypeProject, Key: "raytracer", Flavor: "graphics", Version: "1.0", IsCurrent: true,
			Content: Content{Bullets: []string{"rendered scenes"}}, CreatedAt: base.Add(3 * time.Hour)},
		{Type: TypeSkills, Key: "skills", Flavor: "backend", Version: "1.0", IsCurrent: true,
			Content: Content{Skills: map[string][]string{"Languages": {"Go"}}}, CreatedAt: base},
	}
}

func TestBuildLibrary_GroupsCurrentVersions(t *testing.T) {
	lib := BuildLibrary(libSections())

	require.Len(t, lib.Experiences, 2)
	assert.Equal(t, "google", lib.Experiences[0].Key)
	assert.Equal(t, "meta", lib.Experiences[1].Key)
	require.Len(t, lib.Experiences[0].Flavors, 2)
	// Non-current 1.1 must not appear; first flavor is the oldest current one.
	assert.Equal(t, "swe", lib.Experiences[0].Flavors[0].Flavor)
	assert.Equal(t, "1.2", lib.Experiences[0].Flavors[0].Version)

	require.Len(t, lib.Projects, 1)
	require.Len(t, lib.Skills, 1)
	assert.Equal(t, "backend", lib.Skills[0].Flavor)
}

func TestLibrary_DefaultFlavor(t *testing.T) {
	lib := BuildLibrary(libSections())

	fi, ok := lib.DefaultFlavor(TypeExperience, "google")
	require.True(t, ok)
	assert.Equal(t, "swe", fi.Flavor)

	_, ok = lib.DefaultFlavor(TypeExperience, "unknown")
	assert.False(t, ok)
}

func TestLibrary_HasVersion(t *testing.T) {
	lib := BuildLibrary(libSections())

	assert.True(t, lib.HasVersion(TypeExperience, Ref{Key: "google", Flavor: "swe", Version: "1.2"}))
	// A demoted version still exists and still resolves at generation.
	assert.True(t, lib.HasVersion(TypeExperience, Ref{Key: "google", Flavor: "swe", Version: "1.1"}))
	// A version that was never stored does not.
	assert.False(t, lib.HasVersion(TypeExperience, Ref{Key: "google", Flavor: "swe", Version: "9.9"}))
	assert.False(t, lib.HasVersion(TypeExperience, Ref{Key: "gone", Flavor: "swe", Version: "1.0"}))
}

func TestLibrary_SkillsFlavor(t *testing.T) {
	lib := BuildLibrary(libSections())

	fi, ok := lib.SkillsFlavor("backend")
	require.True(t, ok)
	assert.Equal(t, "1.0", fi.Version)

	_, ok = lib.SkillsFlavor("frontend")
	assert.False(t, ok)
}
