package server

import (
	"net/http"

	"github.com/jmartin/resume-dash/internal/jd"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/tempedit"
)

type analyzeJDRequest struct {
	JobDescription         string `json:"job_description"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// handleAnalyzeJD asks the model which sections best serve a job
// description and returns the suggested selection, the missing keywords,
// and the annotated library.
func (s *Server) handleAnalyzeJD(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req analyzeJDRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.JobDescription == "" {
		s.handleError(w, &ErrBadRequest{Message: "job_description is required"})
		return
	}

	client, err := s.geminiClient(r.Context(), r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	sections, err := s.store.ListSections(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	configs, err := s.store.ListSectionConfigs(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	lib := section.BuildLibrary(sections)
	analyzer := jd.NewAnalyzer(client)
	resp, err := analyzer.Analyze(r.Context(), lib, configs, req.JobDescription, req.AdditionalInstructions)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "jd analysis", Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

type recalculateKeywordsRequest struct {
	JobDescription string                   `json:"job_description"`
	Selected       []jd.SelectedSection     `json:"selected"`
	TempEdits      map[string]tempedit.Edit `json:"temp_edits,omitempty"`
}

type recalculateKeywordsResponse struct {
	MissingKeywords []string `json:"missing_keywords"`
}

// handleRecalculateKeywords recomputes the missing-keyword list against an
// explicit selection, honoring temp-edited content over stored versions.
func (s *Server) handleRecalculateKeywords(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req recalculateKeywordsRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.JobDescription == "" {
		s.handleError(w, &ErrBadRequest{Message: "job_description is required"})
		return
	}

	contents := make([]section.Content, 0, len(req.Selected))
	for _, sel := range req.Selected {
		id := section.ID{Type: sel.Type, Key: sel.Key, Flavor: sel.Flavor}
		if edit, ok := req.TempEdits[id.String()]; ok {
			contents = append(contents, edit.Content)
			continue
		}
		stored, err := s.store.GetSection(r.Context(), userID, id, sel.Version)
		if err != nil {
			s.handleError(w, err)
			return
		}
		if stored == nil {
			s.handleError(w, &ErrNotFound{Resource: "section version", ID: id.String() + ":" + sel.Version})
			return
		}
		contents = append(contents, stored.Content)
	}

	// the key header is optional here: without it the deterministic diff
	// still answers
	var analyzer *jd.Analyzer
	if key := r.Header.Get("X-Gemini-API-Key"); key != "" {
		client, err := s.llmFactory(r.Context(), key)
		if err == nil {
			defer func() { _ = client.Close() }()
			analyzer = jd.NewAnalyzer(client)
		}
	}

	keywords, err := analyzer.RecalculateKeywords(r.Context(), req.JobDescription, contents)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "keyword recalculation", Cause: err})
		return
	}
	if keywords == nil {
		keywords = []string{}
	}
	s.jsonResponse(w, http.StatusOK, recalculateKeywordsResponse{MissingKeywords: keywords})
}
