package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/types"
	"github.com/jmartin/resume-dash/internal/validation"
)

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrBadRequest{Message: "invalid " + name}
	}
	return id, nil
}

// handleListApplications lists the user's applications, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	apps, err := s.store.ListApplications(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if apps == nil {
		apps = []types.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": apps,
		"count": len(apps),
	})
}

type createApplicationRequest struct {
	Company        string        `json:"company" validate:"required"`
	Role           string        `json:"role" validate:"required"`
	Location       string        `json:"location,omitempty"`
	JobURL         string        `json:"job_url,omitempty"`
	JobDescription string        `json:"job_description,omitempty"`
	Status         types.Status  `json:"status,omitempty"`
	ResumeConfig   resume.Config `json:"resume_config"`
	AppliedAt      *time.Time    `json:"applied_at,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Referral       string        `json:"referral,omitempty"`
	SalaryRange    string        `json:"salary_range,omitempty"`
}

// handleCreateApplication logs an application manually.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid status: " + string(req.Status)})
		return
	}

	app := &types.Application{
		UserID:         userID,
		Company:        req.Company,
		Role:           req.Role,
		Location:       req.Location,
		JobURL:         req.JobURL,
		JobDescription: req.JobDescription,
		Status:         req.Status,
		ResumeConfig:   req.ResumeConfig,
		Notes:          req.Notes,
		Referral:       req.Referral,
		SalaryRange:    req.SalaryRange,
	}
	if req.AppliedAt != nil {
		app.AppliedAt = *req.AppliedAt
	}

	created, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetApplication retrieves one application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if app == nil {
		s.handleError(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

type updateApplicationRequest struct {
	Status      *types.Status `json:"status,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	Referral    *string       `json:"referral,omitempty"`
	SalaryRange *string       `json:"salary_range,omitempty"`
}

// handleUpdateApplication applies a partial status/notes update. The stored
// resume config is immutable.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req updateApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid status: " + string(*req.Status)})
		return
	}

	updated, err := s.store.UpdateApplication(r.Context(), userID, id, db.ApplicationUpdate{
		Status:      req.Status,
		Notes:       req.Notes,
		Referral:    req.Referral,
		SalaryRange: req.SalaryRange,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	if updated == nil {
		s.handleError(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteApplication removes an application.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}

	deleted, err := s.store.DeleteApplication(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
