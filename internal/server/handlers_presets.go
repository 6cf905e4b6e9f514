package server

import (
	"net/http"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/types"
	"github.com/jmartin/resume-dash/internal/validation"
)

// handleListPresets lists the user's presets.
func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	presets, err := s.store.ListPresets(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if presets == nil {
		presets = []types.Preset{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": presets,
		"count": len(presets),
	})
}

type savePresetRequest struct {
	Name         string        `json:"name" validate:"required"`
	ResumeConfig resume.Config `json:"resume_config"`
}

// handleSavePreset creates a preset, or overwrites the config when the
// name is already taken.
func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req savePresetRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if _, _, _, err := req.ResumeConfig.Decode(); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	saved, err := s.store.SavePreset(r.Context(), &types.Preset{
		UserID:       userID,
		Name:         req.Name,
		ResumeConfig: req.ResumeConfig,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, saved)
}

// handleGetPreset retrieves one preset.
func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
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

	preset, err := s.store.GetPreset(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if preset == nil {
		s.handleError(w, &ErrNotFound{Resource: "preset", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, preset)
}

// handleDeletePreset removes a preset.
func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.store.DeletePreset(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "preset", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
