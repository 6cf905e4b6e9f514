// Package api is the HTTP client for the dashboard server, used by the CLI
// commands. Every request carries the X-User-Id header; AI-backed calls also
// forward the Gemini key.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/tempedit"
	"github.com/jmartin/resume-dash/internal/types"
)

// Error is a non-2xx response from the server, carrying the detail message
// the server put in the body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// Client talks to a running dashboard server.
type Client struct {
	baseURL    string
	userID     uuid.UUID
	geminiKey  string
	httpClient *http.Client
}

// New creates a client for the given server. geminiKey may be empty; calls
// that need it will fail server-side with a 401.
func New(baseURL string, userID uuid.UUID, geminiKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		userID:    userID,
		geminiKey: geminiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // generation waits on Chrome
		},
	}
}

// do sends a request and decodes the JSON response into out (when non-nil).
// Non-2xx responses become *Error with the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-Id", c.userID.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.geminiKey != "" {
		req.Header.Set("X-Gemini-API-Key", c.geminiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	detail := string(raw)
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}
	return &Error{Status: resp.StatusCode, Detail: detail}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// --- sections ---

func (c *Client) ListSections(ctx context.Context) ([]section.Section, error) {
	var resp listResponse[section.Section]
	if err := c.do(ctx, http.MethodGet, "/api/sections", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ListSectionVersions(ctx context.Context, id section.ID) ([]section.Section, error) {
	var resp listResponse[section.Section]
	path := fmt.Sprintf("/api/sections/%s/%s/%s", id.Type, url.PathEscape(id.Key), url.PathEscape(id.Flavor))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type createSectionRequest struct {
	Type    section.Type    `json:"type"`
	Key     string          `json:"key"`
	Flavor  string          `json:"flavor"`
	Content section.Content `json:"content"`
	Tags    []string        `json:"tags,omitempty"`
}

func (c *Client) CreateSection(ctx context.Context, id section.ID, content section.Content, tags []string) (*section.Section, error) {
	var created section.Section
	req := createSectionRequest{Type: id.Type, Key: id.Key, Flavor: id.Flavor, Content: content, Tags: tags}
	if err := c.do(ctx, http.MethodPost, "/api/sections", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type updateSectionRequest struct {
	Content section.Content `json:"content"`
}

// UpdateSection saves new content as the next version of the flavor.
func (c *Client) UpdateSection(ctx context.Context, id section.ID, content section.Content) (*section.Section, error) {
	var updated section.Section
	path := fmt.Sprintf("/api/sections/%s/%s/%s", id.Type, url.PathEscape(id.Key), url.PathEscape(id.Flavor))
	if err := c.do(ctx, http.MethodPut, path, updateSectionRequest{Content: content}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteSectionVersion(ctx context.Context, id section.ID, version string) error {
	path := fmt.Sprintf("/api/sections/%s/%s/%s/%s",
		id.Type, url.PathEscape(id.Key), url.PathEscape(id.Flavor), url.PathEscape(version))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// BulkImportItem is one section in a bulk import payload. An empty Flavor
// imports as "default".
type BulkImportItem struct {
	Type    section.Type    `json:"type"`
	Key     string          `json:"key"`
	Flavor  string          `json:"flavor,omitempty"`
	Content section.Content `json:"content"`
	Tags    []string        `json:"tags,omitempty"`
}

// BulkImportFailure reports one item the server rejected.
type BulkImportFailure struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

// BulkImportResult aggregates per-item outcomes of a bulk import.
type BulkImportResult struct {
	Success  int                 `json:"success"`
	Failed   int                 `json:"failed"`
	Failures []BulkImportFailure `json:"failures"`
}

// BulkImportSections creates many sections in one request. The server
// processes items independently, so a partial failure still returns counts.
func (c *Client) BulkImportSections(ctx context.Context, items []BulkImportItem) (*BulkImportResult, error) {
	var result BulkImportResult
	if err := c.do(ctx, http.MethodPost, "/api/sections/bulk", items, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- applications ---

func (c *Client) ListApplications(ctx context.Context) ([]types.Application, error) {
	var resp listResponse[types.Application]
	if err := c.do(ctx, http.MethodGet, "/api/applications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	var app types.Application
	if err := c.do(ctx, http.MethodGet, "/api/applications/"+id.String(), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

type CreateApplicationRequest struct {
	Company      string        `json:"company"`
	Role         string        `json:"role"`
	JobURL       string        `json:"job_url,omitempty"`
	Status       types.Status  `json:"status,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	ResumeConfig resume.Config `json:"resume_config"`
}

func (c *Client) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*types.Application, error) {
	var app types.Application
	if err := c.do(ctx, http.MethodPost, "/api/applications", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

type UpdateApplicationRequest struct {
	Status      *types.Status `json:"status,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	Referral    *string       `json:"referral,omitempty"`
	SalaryRange *string       `json:"salary_range,omitempty"`
}

func (c *Client) UpdateApplication(ctx context.Context, id uuid.UUID, req UpdateApplicationRequest) (*types.Application, error) {
	var app types.Application
	if err := c.do(ctx, http.MethodPut, "/api/applications/"+id.String(), req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/applications/"+id.String(), nil, nil)
}

// --- presets ---

func (c *Client) ListPresets(ctx context.Context) ([]types.Preset, error) {
	var resp listResponse[types.Preset]
	if err := c.do(ctx, http.MethodGet, "/api/presets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type savePresetRequest struct {
	Name         string        `json:"name"`
	ResumeConfig resume.Config `json:"resume_config"`
}

// SavePreset creates the named preset, or overwrites it if the name exists.
func (c *Client) SavePreset(ctx context.Context, name string, cfg resume.Config) (*types.Preset, error) {
	var preset types.Preset
	if err := c.do(ctx, http.MethodPost, "/api/presets", savePresetRequest{Name: name, ResumeConfig: cfg}, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (c *Client) DeletePreset(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/presets/"+id.String(), nil, nil)
}

// --- section configs ---

func (c *Client) ListSectionConfigs(ctx context.Context) ([]types.SectionConfig, error) {
	var resp listResponse[types.SectionConfig]
	if err := c.do(ctx, http.MethodGet, "/api/section-configs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type upsertSectionConfigRequest struct {
	SectionType section.Type     `json:"section_type"`
	SectionKey  string           `json:"section_key"`
	Priority    section.Priority `json:"priority"`
	FixedFlavor string           `json:"fixed_flavor,omitempty"`
}

func (c *Client) UpsertSectionConfig(ctx context.Context, typ section.Type, key string, priority section.Priority, fixedFlavor string) (*types.SectionConfig, error) {
	var cfg types.SectionConfig
	req := upsertSectionConfigRequest{SectionType: typ, SectionKey: key, Priority: priority, FixedFlavor: fixedFlavor}
	if err := c.do(ctx, http.MethodPut, "/api/section-configs", req, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- todos ---

func (c *Client) ListTodos(ctx context.Context) ([]types.Todo, error) {
	var resp listResponse[types.Todo]
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type createTodoRequest struct {
	Text string `json:"text"`
}

func (c *Client) CreateTodo(ctx context.Context, text string) (*types.Todo, error) {
	var created types.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", createTodoRequest{Text: text}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type UpdateTodoRequest struct {
	Text   *string `json:"text,omitempty"`
	IsDone *bool   `json:"is_done,omitempty"`
}

func (c *Client) UpdateTodo(ctx context.Context, id uuid.UUID, req UpdateTodoRequest) (*types.Todo, error) {
	var updated types.Todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+id.String(), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id.String(), nil, nil)
}

type reorderTodosRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// ReorderTodos rewrites display order from the id sequence and returns the
// reordered list.
func (c *Client) ReorderTodos(ctx context.Context, ids []uuid.UUID) ([]types.Todo, error) {
	var resp listResponse[types.Todo]
	if err := c.do(ctx, http.MethodPut, "/api/todos/reorder", reorderTodosRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ClearCompletedTodos deletes every done todo and reports how many went.
func (c *Client) ClearCompletedTodos(ctx context.Context) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/todos/completed", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// --- generation ---

type generateRequest struct {
	ResumeConfig resume.Config            `json:"resume_config"`
	Job          *types.JobInfo           `json:"job,omitempty"`
	TempEdits    map[string]tempedit.Edit `json:"temp_edits,omitempty"`
}

// Generate renders the configured resume and returns the PDF bytes. When job
// is non-nil the server also logs an application for it.
func (c *Client) Generate(ctx context.Context, cfg resume.Config, job *types.JobInfo, edits map[string]tempedit.Edit) ([]byte, error) {
	raw, err := json.Marshal(generateRequest{ResumeConfig: cfg, Job: job, TempEdits: edits})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-Id", c.userID.String())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}
