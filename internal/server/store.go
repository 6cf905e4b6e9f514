package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/outreach"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// Store is the persistence surface the handlers need. *db.DB implements
// it; tests substitute an in-memory version.
type Store interface {
	ListSections(ctx context.Context, userID uuid.UUID) ([]section.Section, error)
	ListSectionVersions(ctx context.Context, userID uuid.UUID, id section.ID) ([]section.Section, error)
	GetSection(ctx context.Context, userID uuid.UUID, id section.ID, version string) (*section.Section, error)
	GetCurrentSection(ctx context.Context, userID uuid.UUID, id section.ID) (*section.Section, error)
	CreateSection(ctx context.Context, userID uuid.UUID, id section.ID, content section.Content, tags []string) (*section.Section, error)
	UpdateSection(ctx context.Context, userID uuid.UUID, id section.ID, content section.Content) (*section.Section, error)
	DeleteSectionVersion(ctx context.Context, userID uuid.UUID, id section.ID, version string) (bool, error)

	ListApplications(ctx context.Context, userID uuid.UUID) ([]types.Application, error)
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error)
	CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error)
	UpdateApplication(ctx context.Context, userID, id uuid.UUID, update db.ApplicationUpdate) (*types.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error)

	ListPresets(ctx context.Context, userID uuid.UUID) ([]types.Preset, error)
	GetPreset(ctx context.Context, userID, id uuid.UUID) (*types.Preset, error)
	SavePreset(ctx context.Context, preset *types.Preset) (*types.Preset, error)
	DeletePreset(ctx context.Context, userID, id uuid.UUID) (bool, error)

	ListSectionConfigs(ctx context.Context, userID uuid.UUID) ([]types.SectionConfig, error)
	UpsertSectionConfig(ctx context.Context, config *types.SectionConfig) (*types.SectionConfig, error)
	DeleteSectionConfig(ctx context.Context, userID uuid.UUID, sectionType section.Type, sectionKey string) (bool, error)

	ListTemplates(ctx context.Context, userID uuid.UUID) ([]outreach.Template, error)
	CreateTemplate(ctx context.Context, t *outreach.Template) (*outreach.Template, error)
	DeleteTemplate(ctx context.Context, userID, id uuid.UUID) (bool, error)

	ListThreads(ctx context.Context, userID uuid.UUID) ([]outreach.Thread, error)
	GetThread(ctx context.Context, userID, id uuid.UUID) (*outreach.Thread, error)
	CreateThread(ctx context.Context, th *outreach.Thread) (*outreach.Thread, error)
	UpdateThread(ctx context.Context, userID, id uuid.UUID, update db.ThreadUpdate) (*outreach.Thread, error)
	DeleteThread(ctx context.Context, userID, id uuid.UUID) (bool, error)

	ListMessages(ctx context.Context, threadID uuid.UUID) ([]outreach.Message, error)
	CreateMessage(ctx context.Context, m *outreach.Message) (*outreach.Message, error)
	DeleteMessage(ctx context.Context, threadID, id uuid.UUID) (bool, error)

	ListTodos(ctx context.Context, userID uuid.UUID) ([]types.Todo, error)
	CreateTodo(ctx context.Context, userID uuid.UUID, text string) (*types.Todo, error)
	UpdateTodo(ctx context.Context, userID, id uuid.UUID, update db.TodoUpdate) (*types.Todo, error)
	DeleteTodo(ctx context.Context, userID, id uuid.UUID) (bool, error)
	ReorderTodos(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]types.Todo, error)
	ClearCompletedTodos(ctx context.Context, userID uuid.UUID) (int, error)

	UpsertUser(ctx context.Context, email, name, provider string) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	SetUserTokenHash(ctx context.Context, id uuid.UUID, hash string) error
}

var _ Store = (*db.DB)(nil)
