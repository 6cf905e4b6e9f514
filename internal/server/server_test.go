package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/llm"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

var testUserID = uuid.MustParse("6f1e6e1a-7c2d-4b6e-9f30-94d7f1a2b3c4")

// fakeRenderer records the HTML it was asked to print.
type fakeRenderer struct {
	lastHTML string
	err      error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

// fakeLLM answers every prompt with canned payloads.
type fakeLLM struct {
	text string
	json string
	err  error
}

func (f *fakeLLM) GenerateText(_ context.Context, _, _ string) (string, error) { return f.text, f.err }
func (f *fakeLLM) GenerateJSON(_ context.Context, _, _ string) (string, error) { return f.json, f.err }
func (f *fakeLLM) Close() error                                                { return nil }

type testEnv struct {
	store    *memStore
	renderer *fakeRenderer
	server   *Server
	handler  http.Handler
}

func newTestEnv(t *testing.T, model *fakeLLM) *testEnv {
	t.Helper()
	store := newMemStore()
	renderer := &fakeRenderer{}
	factory := func(_ context.Context, _ string) (llm.Client, error) {
		if model == nil {
			return &fakeLLM{}, nil
		}
		return model, nil
	}
	s := newServer(store, renderer, factory, "test-secret")
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{store: store, renderer: renderer, server: s, handler: s.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-Id", testUserID.String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedSections(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	seed := []struct {
		id      section.ID
		content section.Content
	}{
		{section.ID{Type: section.TypeExperience, Key: "google", Flavor: "swe"},
			section.Content{Title: "SWE", Company: "Google", Bullets: []string{"Shipped search features"}}},
		{section.ID{Type: section.TypeProject, Key: "tracer", Flavor: "default"},
			section.Content{Title: "Tracer", Bullets: []string{"Built a span collector"}}},
		{section.ID{Type: section.TypeSkills, Key: "skills", Flavor: "backend"},
			section.Content{Skills: map[string][]string{"Languages": {"Go"}}}},
	}
	for _, s := range seed {
		_, err := e.store.CreateSection(ctx, testUserID, s.id, s.content, nil)
		require.NoError(t, err)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingUserHeader(t *testing.T) {
	e := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/sections", nil)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "X-User-Id")
}

func TestAlternateUserHeaderSpelling(t *testing.T) {
	e := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/sections", nil)
	req.Header.Set("X-User-ID", testUserID.String())
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSectionLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)

	// create
	w := e.do(t, http.MethodPost, "/api/sections", map[string]any{
		"type": "experience", "key": "acme", "flavor": "backend",
		"content": map[string]any{"title": "Engineer", "bullets": []string{"built things"}},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created section.Section
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, section.InitialVersion, created.Version)
	assert.True(t, created.IsCurrent)

	// duplicate create conflicts
	w = e.do(t, http.MethodPost, "/api/sections", map[string]any{
		"type": "experience", "key": "acme", "flavor": "backend",
		"content": map[string]any{"bullets": []string{"x"}},
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// update bumps the version
	w = e.do(t, http.MethodPut, "/api/sections/experience/acme/backend", map[string]any{
		"content": map[string]any{"title": "Engineer", "bullets": []string{"rewritten"}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated section.Section
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "1.1", updated.Version)

	// both versions listed
	w = e.do(t, http.MethodGet, "/api/sections/experience/acme/backend", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []section.Section `json:"items"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	// delete the old version
	w = e.do(t, http.MethodDelete, "/api/sections/experience/acme/backend/1.0", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodDelete, "/api/sections/experience/acme/backend/1.0", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSection_RejectsEmptyBullets(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/sections", map[string]any{
		"type": "experience", "key": "acme", "flavor": "backend",
		"content": map[string]any{"title": "Engineer"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSection_UnknownFlavor(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPut, "/api/sections/experience/ghost/none", map[string]any{
		"content": map[string]any{"bullets": []string{"x"}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplicationLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, http.MethodPost, "/api/applications", map[string]any{
		"company": "Initech", "role": "SRE",
		"resume_config": map[string]any{"experiences": []string{"google:swe:1.0"}, "projects": []string{}},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var app types.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, types.StatusApplied, app.Status)

	w = e.do(t, http.MethodPut, "/api/applications/"+app.ID.String(), map[string]any{
		"status": "interview", "notes": "onsite scheduled",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, types.StatusInterview, updated.Status)
	assert.Equal(t, "onsite scheduled", updated.Notes)
	// config untouched by the update
	assert.Equal(t, app.ResumeConfig, updated.ResumeConfig)

	w = e.do(t, http.MethodPut, "/api/applications/"+app.ID.String(), map[string]any{
		"status": "ghosted",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodDelete, "/api/applications/"+app.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/api/applications/"+app.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresetSaveOverwritesByName(t *testing.T) {
	e := newTestEnv(t, nil)

	body := map[string]any{
		"name":          "backend roles",
		"resume_config": map[string]any{"skills": "backend:1.0", "experiences": []string{"google:swe:1.0"}, "projects": []string{}},
	}
	w := e.do(t, http.MethodPost, "/api/presets", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first types.Preset
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	body["resume_config"] = map[string]any{"experiences": []string{"meta:ml:2.0"}, "projects": []string{}}
	w = e.do(t, http.MethodPost, "/api/presets", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var second types.Preset
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"meta:ml:2.0"}, second.ResumeConfig.Experiences)
}

func TestGenerate_ReturnsPDFAndLogsApplication(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{
			"skills":      "backend:1.0",
			"experiences": []string{"google:swe:1.0"},
			"projects":    []string{"tracer:default:1.0"},
		},
		"job": map[string]any{"company": "Initech", "role": "SRE"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	assert.Contains(t, e.renderer.lastHTML, "Shipped search features")

	apps, err := e.store.ListApplications(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Initech", apps[0].Company)
	assert.Equal(t, []string{"google:swe:1.0"}, apps[0].ResumeConfig.Experiences)
}

func TestGenerate_TempEditOverridesContent(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{"experiences": []string{"google:swe:1.0"}, "projects": []string{}},
		"temp_edits": map[string]any{
			"experience:google:swe": map[string]any{
				"type": "experience", "key": "google", "flavor": "swe",
				"originalVersion": "1.0",
				"content":         map[string]any{"title": "SWE", "bullets": []string{"Tailored bullet for this job"}},
			},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, e.renderer.lastHTML, "Tailored bullet for this job")
	assert.NotContains(t, e.renderer.lastHTML, "Shipped search features")
}

func TestGenerate_ApplicationLogFailureStillReturnsPDF(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)
	e.store.failCreateApplication = true

	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{"experiences": []string{"google:swe:1.0"}, "projects": []string{}},
		"job":           map[string]any{"company": "Initech"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestGenerate_NoJobMeansNoApplication(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{"experiences": []string{"google:swe:1.0"}, "projects": []string{}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	apps, err := e.store.ListApplications(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestGenerate_MissingVersionFailsClosed(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{"experiences": []string{"google:swe:9.9"}, "projects": []string{}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_EmptySelection(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/generate", map[string]any{
		"resume_config": map[string]any{"experiences": []string{}, "projects": []string{}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeJD_RequiresAPIKey(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/jd/analyze", map[string]any{
		"job_description": "Go engineer wanted",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyzeJD_ReturnsSuggestions(t *testing.T) {
	model := &fakeLLM{json: `{
		"skills_flavor": "backend",
		"experiences": [{"key": "google", "flavor": "swe", "score": 0.9}],
		"projects": []
	}`}
	e := newTestEnv(t, model)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/jd/analyze", map[string]any{
		"job_description": "Looking for a Go engineer with search experience",
	}, map[string]string{"X-Gemini-API-Key": "test-key"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Suggestions struct {
			SkillsFlavor string `json:"skills_flavor"`
			Experiences  []struct {
				Key string `json:"key"`
			} `json:"experiences"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "backend", resp.Suggestions.SkillsFlavor)
	require.Len(t, resp.Suggestions.Experiences, 1)
	assert.Equal(t, "google", resp.Suggestions.Experiences[0].Key)
}

func TestRecalculateKeywords_WorksWithoutAPIKey(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	jd := strings.Repeat("kubernetes terraform ", 3)
	w := e.do(t, http.MethodPost, "/api/jd/recalculate-keywords", map[string]any{
		"job_description": jd,
		"selected": []map[string]any{
			{"type": "experience", "key": "google", "flavor": "swe", "version": "1.0"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		MissingKeywords []string `json:"missing_keywords"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.MissingKeywords, "kubernetes")
}

func TestOutreachGenerate(t *testing.T) {
	e := newTestEnv(t, &fakeLLM{text: "Hi, I admire Initech's work"})

	w := e.do(t, http.MethodPost, "/api/outreach/generate", map[string]any{
		"company": "Initech", "style": "casual", "length": "short",
	}, map[string]string{"X-Gemini-API-Key": "test-key"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp messageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
}

func TestOutreachThreadAndMessages(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, http.MethodPost, "/api/outreach/threads", map[string]any{
		"company": "Initech", "contact_name": "Sam", "contact_method": "linkedin",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var thread struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &thread))

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/outreach/threads/%s/messages", thread.ID), map[string]any{
		"direction": "sent", "content": "Hi Sam",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/outreach/threads/%s/messages", thread.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	// another user cannot read the thread
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/outreach/threads/%s/messages", thread.ID), nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseConversation_FallsBackToRawDump(t *testing.T) {
	e := newTestEnv(t, &fakeLLM{json: "not json"})

	w := e.do(t, http.MethodPost, "/api/outreach/parse-conversation", map[string]any{
		"raw_text": "an unparseable wall of text",
	}, map[string]string{"X-Gemini-API-Key": "test-key"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		IsRawDump bool `json:"is_raw_dump"`
		Messages  []struct {
			Direction string `json:"direction"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsRawDump)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "received", resp.Messages[0].Direction)
}

func TestAuthSync(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, http.MethodPost, "/api/auth/sync", map[string]any{
		"email": "dev@example.com", "name": "Dev", "provider": "google",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp authSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "dev@example.com", resp.User.Email)
	require.NotEmpty(t, resp.Token)

	claims, err := e.server.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	// syncing again keeps the same account
	w = e.do(t, http.MethodPost, "/api/auth/sync", map[string]any{
		"email": "dev@example.com", "name": "Dev Renamed", "provider": "google",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var again authSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.Equal(t, "Dev Renamed", again.User.Name)
}

func TestAuthSync_InvalidEmail(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/auth/sync", map[string]any{
		"email": "not-an-email", "provider": "google",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateThread_RejectsUnknownContactMethod(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/outreach/threads", map[string]any{
		"company": "Initech", "contact_name": "Sam", "contact_method": "carrier-pigeon",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "contact method")
}

func TestBulkImportSections(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedSections(t)

	w := e.do(t, http.MethodPost, "/api/sections/bulk", []map[string]any{
		// no flavor: imports under "default"
		{"type": "experience", "key": "acme",
			"content": map[string]any{"title": "Engineer", "bullets": []string{"built things"}}},
		{"type": "project", "key": "compiler", "flavor": "systems",
			"content": map[string]any{"title": "Compiler", "bullets": []string{"wrote a parser"}}},
		// duplicate of a seeded flavor
		{"type": "experience", "key": "google", "flavor": "swe",
			"content": map[string]any{"bullets": []string{"x"}}},
		// bad type
		{"type": "hobby", "key": "chess",
			"content": map[string]any{"bullets": []string{"x"}}},
		// failed validation: experience content needs bullets
		{"type": "experience", "key": "initech", "flavor": "sre",
			"content": map[string]any{"title": "SRE"}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success  int `json:"success"`
		Failed   int `json:"failed"`
		Failures []struct {
			Index  int    `json:"index"`
			Key    string `json:"key"`
			Detail string `json:"detail"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Success)
	assert.Equal(t, 3, resp.Failed)
	require.Len(t, resp.Failures, 3)
	assert.Equal(t, 2, resp.Failures[0].Index)
	assert.Contains(t, resp.Failures[0].Detail, "already exists")

	// the flavorless item landed as "default"
	w = e.do(t, http.MethodGet, "/api/sections/experience/acme/default", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBulkImportSections_EmptyArray(t *testing.T) {
	e := newTestEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/sections/bulk", []map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTodoLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, http.MethodPost, "/api/todos", map[string]any{"text": "follow up with recruiter"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first types.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.SortOrder)
	assert.False(t, first.IsDone)

	w = e.do(t, http.MethodPost, "/api/todos", map[string]any{"text": "update skills section"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var second types.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, 2, second.SortOrder)

	// blank text rejected
	w = e.do(t, http.MethodPost, "/api/todos", map[string]any{"text": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// toggle done without touching the text
	w = e.do(t, http.MethodPut, "/api/todos/"+first.ID.String(), map[string]any{"is_done": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled types.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.True(t, toggled.IsDone)
	assert.Equal(t, "follow up with recruiter", toggled.Text)

	// rename without touching done state
	w = e.do(t, http.MethodPut, "/api/todos/"+second.ID.String(), map[string]any{"text": "rewrite skills section"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var renamed types.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renamed))
	assert.Equal(t, "rewrite skills section", renamed.Text)
	assert.False(t, renamed.IsDone)

	w = e.do(t, http.MethodGet, "/api/todos", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []types.Todo `json:"items"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	w = e.do(t, http.MethodDelete, "/api/todos/"+second.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, http.MethodDelete, "/api/todos/"+second.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorderTodos(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()

	a, err := e.store.CreateTodo(ctx, testUserID, "first")
	require.NoError(t, err)
	b, err := e.store.CreateTodo(ctx, testUserID, "second")
	require.NoError(t, err)
	c, err := e.store.CreateTodo(ctx, testUserID, "third")
	require.NoError(t, err)

	w := e.do(t, http.MethodPut, "/api/todos/reorder", map[string]any{
		"ids": []string{c.ID.String(), a.ID.String(), b.ID.String()},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list struct {
		Items []types.Todo `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 3)
	assert.Equal(t, "third", list.Items[0].Text)
	assert.Equal(t, "first", list.Items[1].Text)
	assert.Equal(t, "second", list.Items[2].Text)

	w = e.do(t, http.MethodPut, "/api/todos/reorder", map[string]any{"ids": []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearCompletedTodos(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()

	done := true
	a, err := e.store.CreateTodo(ctx, testUserID, "done already")
	require.NoError(t, err)
	_, err = e.store.UpdateTodo(ctx, testUserID, a.ID, db.TodoUpdate{IsDone: &done})
	require.NoError(t, err)
	_, err = e.store.CreateTodo(ctx, testUserID, "still open")
	require.NoError(t, err)

	w := e.do(t, http.MethodDelete, "/api/todos/completed", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["deleted"])

	todos, err := e.store.ListTodos(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "still open", todos[0].Text)
}
