package server

import (
	"net/http"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
	"github.com/jmartin/resume-dash/internal/validation"
)

// handleListSectionConfigs lists the user's per-key matcher settings.
func (s *Server) handleListSectionConfigs(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	configs, err := s.store.ListSectionConfigs(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if configs == nil {
		configs = []types.SectionConfig{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": configs,
		"count": len(configs),
	})
}

type upsertSectionConfigRequest struct {
	SectionType section.Type     `json:"section_type"`
	SectionKey  string           `json:"section_key" validate:"required"`
	Priority    section.Priority `json:"priority"`
	FixedFlavor string           `json:"fixed_flavor,omitempty"`
}

// handleUpsertSectionConfig writes the matcher settings for one
// (type, key) pair.
func (s *Server) handleUpsertSectionConfig(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req upsertSectionConfigRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if !req.SectionType.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid section type"})
		return
	}
	if !req.Priority.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid priority: " + string(req.Priority)})
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	saved, err := s.store.UpsertSectionConfig(r.Context(), &types.SectionConfig{
		UserID:      userID,
		SectionType: req.SectionType,
		SectionKey:  req.SectionKey,
		Priority:    req.Priority,
		FixedFlavor: req.FixedFlavor,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// handleDeleteSectionConfig restores default matcher behavior for one
// (type, key) pair.
func (s *Server) handleDeleteSectionConfig(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	typ := section.Type(r.PathValue("type"))
	if !typ.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid section type: " + r.PathValue("type")})
		return
	}
	key := r.PathValue("key")

	deleted, err := s.store.DeleteSectionConfig(r.Context(), userID, typ, key)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "section config", ID: string(typ) + ":" + key})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
