package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jmartin/resume-dash/internal/jd"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/tempedit"
)

type analyzeJDRequest struct {
	JobDescription         string `json:"job_description"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// AnalyzeJD asks the server to match the section library against a job
// description. Requires a Gemini key on the client.
func (c *Client) AnalyzeJD(ctx context.Context, jobDescription, instructions string) (*jd.AnalyzeResponse, error) {
	var resp jd.AnalyzeResponse
	req := analyzeJDRequest{JobDescription: jobDescription, AdditionalInstructions: instructions}
	if err := c.do(ctx, http.MethodPost, "/api/jd/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type recalculateKeywordsRequest struct {
	JobDescription string                   `json:"job_description"`
	Selected       []jd.SelectedSection     `json:"selected"`
	TempEdits      map[string]tempedit.Edit `json:"temp_edits,omitempty"`
}

type recalculateKeywordsResponse struct {
	MissingKeywords []string `json:"missing_keywords"`
}

// RecalculateKeywords recomputes the missing-keyword list for an explicit
// selection. Works without a Gemini key; the server falls back to its
// deterministic diff.
func (c *Client) RecalculateKeywords(ctx context.Context, jobDescription string, selected []jd.SelectedSection, edits map[string]tempedit.Edit) ([]string, error) {
	var resp recalculateKeywordsResponse
	req := recalculateKeywordsRequest{JobDescription: jobDescription, Selected: selected, TempEdits: edits}
	if err := c.do(ctx, http.MethodPost, "/api/jd/recalculate-keywords", req, &resp); err != nil {
		return nil, err
	}
	return resp.MissingKeywords, nil
}

// DeleteSectionConfig removes the stored matcher behavior for a key.
func (c *Client) DeleteSectionConfig(ctx context.Context, typ section.Type, key string) error {
	path := "/api/section-configs/" + string(typ) + "/" + url.PathEscape(key)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
