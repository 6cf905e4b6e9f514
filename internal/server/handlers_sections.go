package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/validation"
)

// sectionID parses the {type}/{key}/{flavor} path segments.
func sectionID(r *http.Request) (section.ID, error) {
	typ := section.Type(r.PathValue("type"))
	if !typ.Valid() {
		return section.ID{}, &ErrBadRequest{Message: "invalid section type: " + r.PathValue("type")}
	}
	id := section.ID{Type: typ, Key: r.PathValue("key"), Flavor: r.PathValue("flavor")}
	if id.Key == "" || id.Flavor == "" {
		return section.ID{}, &ErrBadRequest{Message: "section key and flavor are required"}
	}
	return id, nil
}

// handleListSections lists every section row for the user, all versions
// included.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sections, err := s.store.ListSections(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if sections == nil {
		sections = []section.Section{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": sections,
		"count": len(sections),
	})
}

type createSectionRequest struct {
	Type    section.Type    `json:"type"`
	Key     string          `json:"key" validate:"required"`
	Flavor  string          `json:"flavor" validate:"required"`
	Content section.Content `json:"content"`
	Tags    []string        `json:"tags,omitempty"`
}

// handleCreateSection creates a brand new flavor at the initial version.
func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createSectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if !req.Type.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid section type"})
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if err := validation.SectionContent(req.Type, req.Content); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	id := section.ID{Type: req.Type, Key: req.Key, Flavor: req.Flavor}
	if existing, err := s.store.GetCurrentSection(r.Context(), userID, id); err != nil {
		s.handleError(w, err)
		return
	} else if existing != nil {
		s.handleError(w, &ErrConflict{Resource: "section", ID: id.String()})
		return
	}

	created, err := s.store.CreateSection(r.Context(), userID, id, req.Content, req.Tags)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

type bulkImportItem struct {
	Type    section.Type    `json:"type"`
	Key     string          `json:"key"`
	Flavor  string          `json:"flavor"`
	Content section.Content `json:"content"`
	Tags    []string        `json:"tags,omitempty"`
}

type bulkImportFailure struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

// handleBulkImportSections creates sections from a JSON array in one
// request. Items are validated and created independently, and a bad item
// fails alone instead of aborting the batch.
func (s *Server) handleBulkImportSections(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var items []bulkImportItem
	if err := decodeBody(r, &items); err != nil {
		s.handleError(w, err)
		return
	}
	if len(items) == 0 {
		s.handleError(w, &ErrBadRequest{Message: "request body must be a non-empty JSON array"})
		return
	}

	var failures []bulkImportFailure
	success := 0
	for i, item := range items {
		if item.Flavor == "" {
			item.Flavor = "default"
		}
		if err := s.importSection(r, userID, item); err != nil {
			failures = append(failures, bulkImportFailure{Index: i, Key: item.Key, Detail: err.Error()})
			continue
		}
		success++
	}
	if failures == nil {
		failures = []bulkImportFailure{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  success,
		"failed":   len(failures),
		"failures": failures,
	})
}

// importSection runs the single-create path for one bulk item.
func (s *Server) importSection(r *http.Request, userID uuid.UUID, item bulkImportItem) error {
	if !item.Type.Valid() {
		return &ErrBadRequest{Message: "invalid section type: " + string(item.Type)}
	}
	if item.Key == "" {
		return &ErrBadRequest{Message: "key is required"}
	}
	if err := validation.SectionContent(item.Type, item.Content); err != nil {
		return &ErrBadRequest{Message: err.Error()}
	}

	id := section.ID{Type: item.Type, Key: item.Key, Flavor: item.Flavor}
	existing, err := s.store.GetCurrentSection(r.Context(), userID, id)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ErrConflict{Resource: "section", ID: id.String()}
	}

	_, err = s.store.CreateSection(r.Context(), userID, id, item.Content, item.Tags)
	return err
}

// handleListSectionVersions lists every version of one flavor, oldest
// first.
func (s *Server) handleListSectionVersions(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := sectionID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	versions, err := s.store.ListSectionVersions(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if len(versions) == 0 {
		s.handleError(w, &ErrNotFound{Resource: "section", ID: id.String()})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": versions,
		"count": len(versions),
	})
}

type updateSectionRequest struct {
	Content section.Content `json:"content"`
}

// handleUpdateSection writes new content as a fresh version and promotes
// it to current.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := sectionID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req updateSectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.SectionContent(id.Type, req.Content); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	updated, err := s.store.UpdateSection(r.Context(), userID, id, req.Content)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if updated == nil {
		s.handleError(w, &ErrNotFound{Resource: "section", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteSectionVersion removes one exact version of a flavor.
func (s *Server) handleDeleteSectionVersion(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := sectionID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	version := r.PathValue("version")

	deleted, err := s.store.DeleteSectionVersion(r.Context(), userID, id, version)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "section version", ID: id.String() + ":" + version})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
