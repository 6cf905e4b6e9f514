// Package types holds the domain records shared between the REST server,
// the storage layer, and the API client.
package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/section"
)

// Status tracks where an application stands in the funnel.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusPhoneScreen Status = "phone_screen"
	StatusInterview   Status = "interview"
	StatusOffer       Status = "offer"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusPhoneScreen, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Application records one resume sent to one job. ResumeConfig is the
// exact configuration used; it is never rewritten after the fact.
type Application struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	Company        string        `json:"company"`
	Role           string        `json:"role"`
	Location       string        `json:"location,omitempty"`
	JobURL         string        `json:"job_url,omitempty"`
	JobDescription string        `json:"job_description,omitempty"`
	Status         Status        `json:"status"`
	ResumeConfig   resume.Config `json:"resume_config"`
	AppliedAt      time.Time     `json:"applied_at"`
	Notes          string        `json:"notes,omitempty"`
	Referral       string        `json:"referral,omitempty"`
	SalaryRange    string        `json:"salary_range,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Preset is a named, persisted resume configuration snapshot.
type Preset struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Name         string        `json:"name"`
	ResumeConfig resume.Config `json:"resume_config"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SectionConfig stores per-key matcher behavior: pin the key into every
// suggestion, exclude it, or lock it to one flavor.
type SectionConfig struct {
	ID          uuid.UUID        `json:"id,omitempty"`
	UserID      uuid.UUID        `json:"user_id,omitempty"`
	SectionType section.Type     `json:"section_type"`
	SectionKey  string           `json:"section_key"`
	Priority    section.Priority `json:"priority"`
	FixedFlavor string           `json:"fixed_flavor,omitempty"`
}

// User is the account record upserted from the OAuth sign-in callback.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Todo is one entry on the dashboard task list. SortOrder drives display
// order; reordering rewrites it for every affected row.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	IsDone    bool      `json:"is_done"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobInfo is the optional job metadata attached to a generation request.
// A non-empty company triggers the implicit application log.
type JobInfo struct {
	Company        string `json:"company"`
	Role           string `json:"role,omitempty"`
	Location       string `json:"location,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
}
