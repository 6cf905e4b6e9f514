// Package section defines the addressing scheme and content model for
// versioned resume content blocks.
package section

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a content block.
type Type string

const (
	TypeExperience Type = "experience"
	TypeProject    Type = "project"
	TypeSkills     Type = "skills"
	TypeEducation  Type = "education"
)

// Valid reports whether t is a known section type.
func (t Type) Valid() bool {
	switch t {
	case TypeExperience, TypeProject, TypeSkills, TypeEducation:
		return true
	}
	return false
}

// Bulleted reports whether sections of this type carry a bullet list.
func (t Type) Bulleted() bool {
	return t == TypeExperience || t == TypeProject
}

// Content holds the type-specific fields of a section. Experiences and
// projects use the title/company/dates/bullets fields; skills sections use
// the free-form category map.
type Content struct {
	Title    string              `json:"title,omitempty"`
	Company  string              `json:"company,omitempty"`
	Dates    string              `json:"dates,omitempty"`
	Location string              `json:"location,omitempty"`
	Bullets  []string            `json:"bullets,omitempty"`
	Skills   map[string][]string `json:"skills,omitempty"`
}

// Section is one immutable content snapshot. The (type, key, flavor)
// triple plus version uniquely identifies it; editing creates a new
// version rather than mutating an existing one.
type Section struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      Type      `json:"type"`
	Key       string    `json:"key"`
	Flavor    string    `json:"flavor"`
	Version   string    `json:"version"`
	Content   Content   `json:"content"`
	IsCurrent bool      `json:"is_current"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitialVersion is the version assigned to the first snapshot of a flavor.
const InitialVersion = "1.0"

// NextVersion returns the version that follows v in "major.minor" form.
// Saving an edit bumps the minor component.
func NextVersion(v string) (string, error) {
	major, minor, ok := splitVersion(v)
	if !ok {
		return "", fmt.Errorf("invalid version %q", v)
	}
	return fmt.Sprintf("%d.%d", major, minor+1), nil
}

// CompareVersions orders two "major.minor" versions. It returns a negative
// number when a < b, zero when equal, positive when a > b.
func CompareVersions(a, b string) (int, error) {
	aMaj, aMin, ok := splitVersion(a)
	if !ok {
		return 0, fmt.Errorf("invalid version %q", a)
	}
	bMaj, bMin, ok := splitVersion(b)
	if !ok {
		return 0, fmt.Errorf("invalid version %q", b)
	}
	if aMaj != bMaj {
		return aMaj - bMaj, nil
	}
	return aMin - bMin, nil
}

func splitVersion(v string) (major, minor int, ok bool) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return 0, 0, false
	}
	return major, minor, true
}
