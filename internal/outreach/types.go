// Package outreach drafts and tracks recruiter/contact conversations:
// threads of ordered messages per company, reusable templates, and
// AI-assisted drafting under per-style length budgets.
package outreach

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/resume"
)

// WritingStyle controls the register of generated messages.
type WritingStyle string

const (
	StyleProfessional WritingStyle = "professional"
	StyleSemiFormal   WritingStyle = "semi_formal"
	StyleCasual       WritingStyle = "casual"
	StyleFriend       WritingStyle = "friend"
)

// Valid reports whether s is a known style.
func (s WritingStyle) Valid() bool {
	switch s {
	case StyleProfessional, StyleSemiFormal, StyleCasual, StyleFriend:
		return true
	}
	return false
}

// MessageLength selects the character budget of a generated message.
type MessageLength string

const (
	LengthShort MessageLength = "short"
	LengthLong  MessageLength = "long"
)

// Valid reports whether l is a known length.
func (l MessageLength) Valid() bool {
	return l == LengthShort || l == LengthLong
}

// CharLimit is a message length budget. Strict limits are enforced by
// truncation (LinkedIn connection notes cut off at 300 characters); soft
// limits only steer the prompt.
type CharLimit struct {
	Limit  int
	Strict bool
}

// CharLimits maps each length to its budget.
var CharLimits = map[MessageLength]CharLimit{
	LengthShort: {Limit: 300, Strict: true},
	LengthLong:  {Limit: 600, Strict: false},
}

// ContactMethod records where a thread's conversation happens.
type ContactMethod string

const (
	MethodLinkedIn ContactMethod = "linkedin"
	MethodEmail    ContactMethod = "email"
	MethodOther    ContactMethod = "other"
)

// Valid reports whether m is a known contact method.
func (m ContactMethod) Valid() bool {
	return m == MethodLinkedIn || m == MethodEmail || m == MethodOther
}

// MessageDirection marks who wrote a message.
type MessageDirection string

const (
	DirectionSent     MessageDirection = "sent"
	DirectionReceived MessageDirection = "received"
)

// Valid reports whether d is a known direction.
func (d MessageDirection) Valid() bool {
	return d == DirectionSent || d == DirectionReceived
}

// Template is a reusable message skeleton.
type Template struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Content   string        `json:"content"`
	Style     WritingStyle  `json:"style"`
	Length    MessageLength `json:"length"`
	CreatedAt time.Time     `json:"created_at"`
}

// Thread is one tracked conversation with a contact or company.
type Thread struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Company        string         `json:"company"`
	ContactName    string         `json:"contact_name,omitempty"`
	ContactMethod  ContactMethod  `json:"contact_method,omitempty"`
	ResumeConfig   *resume.Config `json:"resume_config,omitempty"`
	IsActive       bool           `json:"is_active"`
	ApplicationIDs []uuid.UUID    `json:"application_ids"`
	MessageCount   int            `json:"message_count"`
	LastMessageAt  *time.Time     `json:"last_message_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Message is one entry in a thread's timeline. IsRawDump marks an
// unstructured conversation paste that could not be split into messages.
type Message struct {
	ID        uuid.UUID        `json:"id"`
	ThreadID  uuid.UUID        `json:"thread_id"`
	Direction MessageDirection `json:"direction"`
	Content   string           `json:"content"`
	MessageAt *time.Time       `json:"message_at,omitempty"`
	IsRawDump bool             `json:"is_raw_dump"`
	CreatedAt time.Time        `json:"created_at"`
}
