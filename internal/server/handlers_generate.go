package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jmartin/resume-dash/internal/render"
	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/tempedit"
	"github.com/jmartin/resume-dash/internal/types"
)

type generateRequest struct {
	ResumeConfig resume.Config            `json:"resume_config"`
	Job          *types.JobInfo           `json:"job,omitempty"`
	TempEdits    map[string]tempedit.Edit `json:"temp_edits,omitempty"`
}

// handleGenerate resolves the resume config against the stored sections,
// with any temp-edit content overriding at render time, and streams back
// the printed PDF. When job metadata names a company, the generation is
// also logged as an application.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if len(req.ResumeConfig.Experiences) == 0 && len(req.ResumeConfig.Projects) == 0 && req.ResumeConfig.Skills == "" {
		s.handleError(w, &ErrBadRequest{Message: "resume config selects no sections"})
		return
	}

	sections, err := s.store.ListSections(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	overlay := make(render.Overlay, len(req.TempEdits))
	for key, edit := range req.TempEdits {
		overlay[key] = edit.Content
	}

	doc, err := render.Resolve(req.ResumeConfig, sections, overlay, req.Job)
	if err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	html, err := render.HTML(doc)
	if err != nil {
		s.handleError(w, err)
		return
	}

	pdf, err := s.renderer.RenderPDF(r.Context(), html)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "pdf rendering", Cause: err})
		return
	}

	// implicit application log; a failure here must not lose the PDF
	if req.Job != nil && req.Job.Company != "" {
		app := &types.Application{
			UserID:         userID,
			Company:        req.Job.Company,
			Role:           req.Job.Role,
			Location:       req.Job.Location,
			JobURL:         req.Job.JobURL,
			JobDescription: req.Job.JobDescription,
			Status:         types.StatusApplied,
			ResumeConfig:   req.ResumeConfig,
		}
		if _, err := s.store.CreateApplication(r.Context(), app); err != nil {
			log.Printf("failed to log application for %s: %v", req.Job.Company, err)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("failed to write PDF response: %v", err)
	}
}
