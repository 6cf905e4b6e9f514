package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/types"
)

// handleListTodos lists the user's todos in display order.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	todos, err := s.store.ListTodos(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if todos == nil {
		todos = []types.Todo{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": todos,
		"count": len(todos),
	})
}

type createTodoRequest struct {
	Text string `json:"text"`
}

// handleCreateTodo appends a todo at the end of the list.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createTodoRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		s.handleError(w, &ErrBadRequest{Message: "text is required"})
		return
	}

	created, err := s.store.CreateTodo(r.Context(), userID, req.Text)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

type updateTodoRequest struct {
	Text   *string `json:"text,omitempty"`
	IsDone *bool   `json:"is_done,omitempty"`
}

// handleUpdateTodo applies a partial update, used for both renames and
// done toggles.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, &ErrBadRequest{Message: "invalid todo id"})
		return
	}

	var req updateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		if trimmed == "" {
			s.handleError(w, &ErrBadRequest{Message: "text cannot be empty"})
			return
		}
		req.Text = &trimmed
	}

	updated, err := s.store.UpdateTodo(r.Context(), userID, id, db.TodoUpdate{
		Text:   req.Text,
		IsDone: req.IsDone,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	if updated == nil {
		s.handleError(w, &ErrNotFound{Resource: "todo", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteTodo removes one todo.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, &ErrBadRequest{Message: "invalid todo id"})
		return
	}

	deleted, err := s.store.DeleteTodo(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "todo", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderTodosRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// handleReorderTodos rewrites sort order from the given id sequence and
// returns the reordered list.
func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req reorderTodosRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if len(req.IDs) == 0 {
		s.handleError(w, &ErrBadRequest{Message: "ids is required"})
		return
	}

	todos, err := s.store.ReorderTodos(r.Context(), userID, req.IDs)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if todos == nil {
		todos = []types.Todo{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": todos,
		"count": len(todos),
	})
}

// handleClearCompletedTodos deletes every done todo in one shot.
func (s *Server) handleClearCompletedTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	deleted, err := s.store.ClearCompletedTodos(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"deleted": deleted})
}
