package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/section"
)

var testUserID = uuid.MustParse("1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, testUserID, "test-key")
}

func TestClientSendsIdentityHeaders(t *testing.T) {
	var gotUser, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-Id")
		gotKey = r.Header.Get("X-Gemini-API-Key")
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "count": 0})
	})

	_, err := c.ListSections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testUserID.String(), gotUser)
	assert.Equal(t, "test-key", gotKey)
}

func TestClientSurfacesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "section not found: ghost"})
	})

	_, err := c.ListSectionVersions(context.Background(), section.ID{Type: section.TypeExperience, Key: "ghost", Flavor: "none"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "section not found: ghost", apiErr.Detail)
}

func TestClientNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.ListApplications(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "bad gateway")
}

func TestGenerateReturnsPDFBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "resume_config")

		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 payload"))
	})

	cfg := resume.Config{Experiences: []string{"google:swe:1.0"}, Projects: []string{}}
	pdf, err := c.Generate(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 payload", string(pdf))
}

func TestGenerateErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "version not found: experience:google:swe:9.9"})
	})

	_, err := c.Generate(context.Background(), resume.Config{}, nil, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Detail, "version not found")
}

func TestFetchWorkspace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sections":
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"type": "experience", "key": "google", "flavor": "swe", "version": "1.0"}},
				"count": 1,
			})
		case "/api/presets":
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"name": "backend"}},
				"count": 1,
			})
		case "/api/section-configs":
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "count": 0})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ws, err := c.FetchWorkspace(context.Background())
	require.NoError(t, err)
	require.Len(t, ws.Sections, 1)
	assert.Equal(t, "google", ws.Sections[0].Key)
	require.Len(t, ws.Presets, 1)
	assert.Equal(t, "backend", ws.Presets[0].Name)
	assert.Empty(t, ws.SectionConfigs)
}

func TestFetchWorkspacePropagatesFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/presets" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "internal server error"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "count": 0})
	})

	_, err := c.FetchWorkspace(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
