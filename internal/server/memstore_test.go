package server

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/outreach"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	sections     []section.Section
	applications map[uuid.UUID]*types.Application
	presets      map[uuid.UUID]*types.Preset
	configs      map[string]*types.SectionConfig
	templates    map[uuid.UUID]*outreach.Template
	threads      map[uuid.UUID]*outreach.Thread
	messages     map[uuid.UUID][]outreach.Message
	users        map[uuid.UUID]*types.User
	tokenHashes  map[uuid.UUID]string
	todos        map[uuid.UUID]*types.Todo

	failCreateApplication bool
}

func newMemStore() *memStore {
	return &memStore{
		applications: make(map[uuid.UUID]*types.Application),
		presets:      make(map[uuid.UUID]*types.Preset),
		configs:      make(map[string]*types.SectionConfig),
		templates:    make(map[uuid.UUID]*outreach.Template),
		threads:      make(map[uuid.UUID]*outreach.Thread),
		messages:     make(map[uuid.UUID][]outreach.Message),
		users:        make(map[uuid.UUID]*types.User),
		tokenHashes:  make(map[uuid.UUID]string),
		todos:        make(map[uuid.UUID]*types.Todo),
	}
}

func (m *memStore) ListSections(_ context.Context, userID uuid.UUID) ([]section.Section, error) {
	var out []section.Section
	for _, s := range m.sections {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListSectionVersions(_ context.Context, userID uuid.UUID, id section.ID) ([]section.Section, error) {
	var out []section.Section
	for _, s := range m.sections {
		if s.UserID == userID && s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetSection(_ context.Context, userID uuid.UUID, id section.ID, version string) (*section.Section, error) {
	for i := range m.sections {
		s := &m.sections[i]
		if s.UserID == userID && s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor && s.Version == version {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetCurrentSection(_ context.Context, userID uuid.UUID, id section.ID) (*section.Section, error) {
	for i := range m.sections {
		s := &m.sections[i]
		if s.UserID == userID && s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor && s.IsCurrent {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateSection(_ context.Context, userID uuid.UUID, id section.ID, content section.Content, tags []string) (*section.Section, error) {
	s := section.Section{
		ID: uuid.New(), UserID: userID, Type: id.Type, Key: id.Key, Flavor: id.Flavor,
		Version: section.InitialVersion, Content: content, IsCurrent: true, Tags: tags,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.sections = append(m.sections, s)
	return &s, nil
}

func (m *memStore) UpdateSection(_ context.Context, userID uuid.UUID, id section.ID, content section.Content) (*section.Section, error) {
	var current *section.Section
	for i := range m.sections {
		s := &m.sections[i]
		if s.UserID == userID && s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor && s.IsCurrent {
			current = s
			break
		}
	}
	if current == nil {
		return nil, nil
	}
	nextVersion, err := section.NextVersion(current.Version)
	if err != nil {
		return nil, err
	}
	current.IsCurrent = false
	next := section.Section{
		ID: uuid.New(), UserID: userID, Type: id.Type, Key: id.Key, Flavor: id.Flavor,
		Version: nextVersion, Content: content, IsCurrent: true,
		Tags: current.Tags, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.sections = append(m.sections, next)
	return &next, nil
}

func (m *memStore) DeleteSectionVersion(_ context.Context, userID uuid.UUID, id section.ID, version string) (bool, error) {
	for i := range m.sections {
		s := m.sections[i]
		if s.UserID == userID && s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor && s.Version == version {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListApplications(_ context.Context, userID uuid.UUID) ([]types.Application, error) {
	var out []types.Application
	for _, a := range m.applications {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (m *memStore) GetApplication(_ context.Context, userID, id uuid.UUID) (*types.Application, error) {
	a, ok := m.applications[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return a, nil
}

func (m *memStore) CreateApplication(_ context.Context, app *types.Application) (*types.Application, error) {
	if m.failCreateApplication {
		return nil, context.DeadlineExceeded
	}
	created := *app
	created.ID = uuid.New()
	if created.AppliedAt.IsZero() {
		created.AppliedAt = time.Now()
	}
	if created.Status == "" {
		created.Status = types.StatusApplied
	}
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.applications[created.ID] = &created
	return &created, nil
}

func (m *memStore) UpdateApplication(_ context.Context, userID, id uuid.UUID, update db.ApplicationUpdate) (*types.Application, error) {
	a, ok := m.applications[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	if update.Notes != nil {
		a.Notes = *update.Notes
	}
	if update.Referral != nil {
		a.Referral = *update.Referral
	}
	if update.SalaryRange != nil {
		a.SalaryRange = *update.SalaryRange
	}
	a.UpdatedAt = time.Now()
	return a, nil
}

func (m *memStore) DeleteApplication(_ context.Context, userID, id uuid.UUID) (bool, error) {
	a, ok := m.applications[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(m.applications, id)
	return true, nil
}

func (m *memStore) ListPresets(_ context.Context, userID uuid.UUID) ([]types.Preset, error) {
	var out []types.Preset
	for _, p := range m.presets {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetPreset(_ context.Context, userID, id uuid.UUID) (*types.Preset, error) {
	p, ok := m.presets[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return p, nil
}

func (m *memStore) SavePreset(_ context.Context, preset *types.Preset) (*types.Preset, error) {
	for _, p := range m.presets {
		if p.UserID == preset.UserID && p.Name == preset.Name {
			p.ResumeConfig = preset.ResumeConfig
			p.UpdatedAt = time.Now()
			return p, nil
		}
	}
	created := *preset
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.presets[created.ID] = &created
	return &created, nil
}

func (m *memStore) DeletePreset(_ context.Context, userID, id uuid.UUID) (bool, error) {
	p, ok := m.presets[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(m.presets, id)
	return true, nil
}

func configKey(userID uuid.UUID, typ section.Type, key string) string {
	return userID.String() + "|" + string(typ) + "|" + key
}

func (m *memStore) ListSectionConfigs(_ context.Context, userID uuid.UUID) ([]types.SectionConfig, error) {
	var out []types.SectionConfig
	for _, c := range m.configs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) UpsertSectionConfig(_ context.Context, config *types.SectionConfig) (*types.SectionConfig, error) {
	saved := *config
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.configs[configKey(config.UserID, config.SectionType, config.SectionKey)] = &saved
	return &saved, nil
}

func (m *memStore) DeleteSectionConfig(_ context.Context, userID uuid.UUID, sectionType section.Type, sectionKey string) (bool, error) {
	key := configKey(userID, sectionType, sectionKey)
	if _, ok := m.configs[key]; !ok {
		return false, nil
	}
	delete(m.configs, key)
	return true, nil
}

func (m *memStore) ListTemplates(_ context.Context, userID uuid.UUID) ([]outreach.Template, error) {
	var out []outreach.Template
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) CreateTemplate(_ context.Context, t *outreach.Template) (*outreach.Template, error) {
	created := *t
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.templates[created.ID] = &created
	return &created, nil
}

func (m *memStore) DeleteTemplate(_ context.Context, userID, id uuid.UUID) (bool, error) {
	t, ok := m.templates[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(m.templates, id)
	return true, nil
}

func (m *memStore) ListThreads(_ context.Context, userID uuid.UUID) ([]outreach.Thread, error) {
	var out []outreach.Thread
	for _, th := range m.threads {
		if th.UserID == userID {
			out = append(out, *th)
		}
	}
	return out, nil
}

func (m *memStore) GetThread(_ context.Context, userID, id uuid.UUID) (*outreach.Thread, error) {
	th, ok := m.threads[id]
	if !ok || th.UserID != userID {
		return nil, nil
	}
	return th, nil
}

func (m *memStore) CreateThread(_ context.Context, th *outreach.Thread) (*outreach.Thread, error) {
	created := *th
	created.ID = uuid.New()
	created.IsActive = true
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.threads[created.ID] = &created
	return &created, nil
}

func (m *memStore) UpdateThread(_ context.Context, userID, id uuid.UUID, update db.ThreadUpdate) (*outreach.Thread, error) {
	th, ok := m.threads[id]
	if !ok || th.UserID != userID {
		return nil, nil
	}
	if update.ContactName != nil {
		th.ContactName = *update.ContactName
	}
	if update.ContactMethod != nil {
		th.ContactMethod = *update.ContactMethod
	}
	if update.IsActive != nil {
		th.IsActive = *update.IsActive
	}
	if update.ApplicationIDs != nil {
		th.ApplicationIDs = *update.ApplicationIDs
	}
	th.UpdatedAt = time.Now()
	return th, nil
}

func (m *memStore) DeleteThread(_ context.Context, userID, id uuid.UUID) (bool, error) {
	th, ok := m.threads[id]
	if !ok || th.UserID != userID {
		return false, nil
	}
	delete(m.threads, id)
	delete(m.messages, id)
	return true, nil
}

func (m *memStore) ListMessages(_ context.Context, threadID uuid.UUID) ([]outreach.Message, error) {
	return m.messages[threadID], nil
}

func (m *memStore) CreateMessage(_ context.Context, msg *outreach.Message) (*outreach.Message, error) {
	created := *msg
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.messages[msg.ThreadID] = append(m.messages[msg.ThreadID], created)
	return &created, nil
}

func (m *memStore) DeleteMessage(_ context.Context, threadID, id uuid.UUID) (bool, error) {
	msgs := m.messages[threadID]
	for i, msg := range msgs {
		if msg.ID == id {
			m.messages[threadID] = append(msgs[:i], msgs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListTodos(_ context.Context, userID uuid.UUID) ([]types.Todo, error) {
	var out []types.Todo
	for _, td := range m.todos {
		if td.UserID == userID {
			out = append(out, *td)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) CreateTodo(_ context.Context, userID uuid.UUID, text string) (*types.Todo, error) {
	maxOrder := 0
	for _, td := range m.todos {
		if td.UserID == userID && td.SortOrder > maxOrder {
			maxOrder = td.SortOrder
		}
	}
	td := &types.Todo{
		ID: uuid.New(), UserID: userID, Text: text, SortOrder: maxOrder + 1,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.todos[td.ID] = td
	return td, nil
}

func (m *memStore) UpdateTodo(_ context.Context, userID, id uuid.UUID, update db.TodoUpdate) (*types.Todo, error) {
	td, ok := m.todos[id]
	if !ok || td.UserID != userID {
		return nil, nil
	}
	if update.Text != nil {
		td.Text = *update.Text
	}
	if update.IsDone != nil {
		td.IsDone = *update.IsDone
	}
	td.UpdatedAt = time.Now()
	return td, nil
}

func (m *memStore) DeleteTodo(_ context.Context, userID, id uuid.UUID) (bool, error) {
	td, ok := m.todos[id]
	if !ok || td.UserID != userID {
		return false, nil
	}
	delete(m.todos, id)
	return true, nil
}

func (m *memStore) ReorderTodos(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]types.Todo, error) {
	for i, id := range ids {
		td, ok := m.todos[id]
		if !ok || td.UserID != userID {
			continue
		}
		td.SortOrder = i + 1
		td.UpdatedAt = time.Now()
	}
	return m.ListTodos(ctx, userID)
}

func (m *memStore) ClearCompletedTodos(_ context.Context, userID uuid.UUID) (int, error) {
	deleted := 0
	for id, td := range m.todos {
		if td.UserID == userID && td.IsDone {
			delete(m.todos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) UpsertUser(_ context.Context, email, name, provider string) (*types.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			u.Name = name
			u.Provider = provider
			u.UpdatedAt = time.Now()
			return u, nil
		}
	}
	u := &types.User{
		ID: uuid.New(), Email: email, Name: name, Provider: provider,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memStore) SetUserTokenHash(_ context.Context, id uuid.UUID, hash string) error {
	m.tokenHashes[id] = hash
	return nil
}

var _ Store = (*memStore)(nil)
