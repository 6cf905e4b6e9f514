package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/db"
	"github.com/jmartin/resume-dash/internal/outreach"
	"github.com/jmartin/resume-dash/internal/validation"
)

// -----------------------------------------------------------------------------
// Templates
// -----------------------------------------------------------------------------

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	templates, err := s.store.ListTemplates(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if templates == nil {
		templates = []outreach.Template{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": templates,
		"count": len(templates),
	})
}

type createTemplateRequest struct {
	Name    string                 `json:"name" validate:"required"`
	Content string                 `json:"content" validate:"required"`
	Style   outreach.WritingStyle  `json:"style,omitempty"`
	Length  outreach.MessageLength `json:"length,omitempty"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createTemplateRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if req.Style != "" && !req.Style.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid style: " + string(req.Style)})
		return
	}
	if req.Length != "" && !req.Length.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid length: " + string(req.Length)})
		return
	}

	created, err := s.store.CreateTemplate(r.Context(), &outreach.Template{
		UserID:  userID,
		Name:    req.Name,
		Content: req.Content,
		Style:   req.Style,
		Length:  req.Length,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.store.DeleteTemplate(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "template", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Threads
// -----------------------------------------------------------------------------

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	threads, err := s.store.ListThreads(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if threads == nil {
		threads = []outreach.Thread{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": threads,
		"count": len(threads),
	})
}

type createThreadRequest struct {
	Company        string                 `json:"company" validate:"required"`
	ContactName    string                 `json:"contact_name,omitempty"`
	ContactMethod  outreach.ContactMethod `json:"contact_method,omitempty"`
	ApplicationIDs []uuid.UUID            `json:"application_ids,omitempty"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createThreadRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if req.ContactMethod != "" && !req.ContactMethod.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid contact method: " + string(req.ContactMethod)})
		return
	}

	created, err := s.store.CreateThread(r.Context(), &outreach.Thread{
		UserID:         userID,
		Company:        req.Company,
		ContactName:    req.ContactName,
		ContactMethod:  req.ContactMethod,
		ApplicationIDs: req.ApplicationIDs,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
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

	thread, err := s.store.GetThread(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if thread == nil {
		s.handleError(w, &ErrNotFound{Resource: "thread", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, thread)
}

type updateThreadRequest struct {
	ContactName    *string                 `json:"contact_name,omitempty"`
	ContactMethod  *outreach.ContactMethod `json:"contact_method,omitempty"`
	IsActive       *bool                   `json:"is_active,omitempty"`
	ApplicationIDs *[]uuid.UUID            `json:"application_ids,omitempty"`
}

func (s *Server) handleUpdateThread(w http.ResponseWriter, r *http.Request) {
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

	var req updateThreadRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if req.ContactMethod != nil && !req.ContactMethod.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid contact method: " + string(*req.ContactMethod)})
		return
	}

	updated, err := s.store.UpdateThread(r.Context(), userID, id, db.ThreadUpdate{
		ContactName:    req.ContactName,
		ContactMethod:  req.ContactMethod,
		IsActive:       req.IsActive,
		ApplicationIDs: req.ApplicationIDs,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	if updated == nil {
		s.handleError(w, &ErrNotFound{Resource: "thread", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.store.DeleteThread(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "thread", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

// ownedThread loads a thread and verifies it belongs to the caller.
func (s *Server) ownedThread(r *http.Request, userID, threadID uuid.UUID) (*outreach.Thread, error) {
	thread, err := s.store.GetThread(r.Context(), userID, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, &ErrNotFound{Resource: "thread", ID: threadID.String()}
	}
	return thread, nil
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	threadID, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}
	if _, err := s.ownedThread(r, userID, threadID); err != nil {
		s.handleError(w, err)
		return
	}

	messages, err := s.store.ListMessages(r.Context(), threadID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if messages == nil {
		messages = []outreach.Message{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": messages,
		"count": len(messages),
	})
}

type createMessageRequest struct {
	Direction outreach.MessageDirection `json:"direction"`
	Content   string                    `json:"content" validate:"required"`
	MessageAt *time.Time                `json:"message_at,omitempty"`
	IsRawDump bool                      `json:"is_raw_dump,omitempty"`
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	threadID, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}
	if _, err := s.ownedThread(r, userID, threadID); err != nil {
		s.handleError(w, err)
		return
	}

	var req createMessageRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if !req.Direction.Valid() {
		s.handleError(w, &ErrBadRequest{Message: "invalid direction: " + string(req.Direction)})
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	created, err := s.store.CreateMessage(r.Context(), &outreach.Message{
		ThreadID:  threadID,
		Direction: req.Direction,
		Content:   req.Content,
		MessageAt: req.MessageAt,
		IsRawDump: req.IsRawDump,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	threadID, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, err)
		return
	}
	messageID, err := pathID(r, "message_id")
	if err != nil {
		s.handleError(w, err)
		return
	}
	if _, err := s.ownedThread(r, userID, threadID); err != nil {
		s.handleError(w, err)
		return
	}

	deleted, err := s.store.DeleteMessage(r.Context(), threadID, messageID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !deleted {
		s.handleError(w, &ErrNotFound{Resource: "message", ID: messageID.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Drafting
// -----------------------------------------------------------------------------

type generateOutreachRequest struct {
	Company     string                 `json:"company" validate:"required"`
	ContactName string                 `json:"contact_name,omitempty"`
	Style       outreach.WritingStyle  `json:"style,omitempty"`
	Length      outreach.MessageLength `json:"length,omitempty"`
	TemplateID  *uuid.UUID             `json:"template_id,omitempty"`
	JDText      string                 `json:"jd_text,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleGenerateOutreach drafts an initial outreach message, optionally
// seeded from a saved template.
func (s *Server) handleGenerateOutreach(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req generateOutreachRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	client, err := s.geminiClient(r.Context(), r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	genReq := outreach.GenerateRequest{
		Company:     req.Company,
		ContactName: req.ContactName,
		Style:       req.Style,
		Length:      req.Length,
		JDText:      req.JDText,
	}
	if req.TemplateID != nil {
		templates, err := s.store.ListTemplates(r.Context(), userID)
		if err != nil {
			s.handleError(w, err)
			return
		}
		for _, t := range templates {
			if t.ID == *req.TemplateID {
				genReq.Template = t.Content
				if req.Style == "" {
					genReq.Style = t.Style
				}
				if req.Length == "" {
					genReq.Length = t.Length
				}
				break
			}
		}
		if genReq.Template == "" {
			s.handleError(w, &ErrNotFound{Resource: "template", ID: req.TemplateID.String()})
			return
		}
	}

	message, err := outreach.NewGenerator(client).Generate(r.Context(), genReq)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "outreach generation", Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, messageResponse{Message: message})
}

type refineOutreachRequest struct {
	Original     string                 `json:"original" validate:"required"`
	Instructions string                 `json:"instructions" validate:"required"`
	Style        outreach.WritingStyle  `json:"style,omitempty"`
	Length       outreach.MessageLength `json:"length,omitempty"`
}

// handleRefineOutreach rewrites a draft per the user's instructions.
func (s *Server) handleRefineOutreach(w http.ResponseWriter, r *http.Request) {
	if _, err := s.userID(r); err != nil {
		s.handleError(w, err)
		return
	}

	var req refineOutreachRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	client, err := s.geminiClient(r.Context(), r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	message, err := outreach.NewGenerator(client).Refine(r.Context(), req.Original, req.Instructions, req.Style, req.Length)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "outreach refinement", Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, messageResponse{Message: message})
}

type generateReplyRequest struct {
	ThreadID     uuid.UUID `json:"thread_id" validate:"required"`
	Instructions string    `json:"instructions,omitempty"`
}

// handleGenerateReply drafts the next message in a thread from its
// history.
func (s *Server) handleGenerateReply(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req generateReplyRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	thread, err := s.ownedThread(r, userID, req.ThreadID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	history, err := s.store.ListMessages(r.Context(), req.ThreadID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	client, err := s.geminiClient(r.Context(), r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	message, err := outreach.NewGenerator(client).GenerateReply(r.Context(), thread, history, req.Instructions)
	if err != nil {
		s.handleError(w, &ErrUpstream{Op: "reply generation", Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, messageResponse{Message: message})
}

type parseConversationRequest struct {
	RawText string `json:"raw_text" validate:"required"`
}

// handleParseConversation splits a pasted conversation dump into directed
// messages; an unparseable dump comes back as one raw block.
func (s *Server) handleParseConversation(w http.ResponseWriter, r *http.Request) {
	if _, err := s.userID(r); err != nil {
		s.handleError(w, err)
		return
	}

	var req parseConversationRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	client, err := s.geminiClient(r.Context(), r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	result := outreach.NewGenerator(client).ParseConversation(r.Context(), req.RawText)
	s.jsonResponse(w, http.StatusOK, result)
}
