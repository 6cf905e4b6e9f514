package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/outreach"
)

func (c *Client) ListTemplates(ctx context.Context) ([]outreach.Template, error) {
	var resp listResponse[outreach.Template]
	if err := c.do(ctx, http.MethodGet, "/api/outreach/templates", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ListThreads(ctx context.Context) ([]outreach.Thread, error) {
	var resp listResponse[outreach.Thread]
	if err := c.do(ctx, http.MethodGet, "/api/outreach/threads", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type createThreadRequest struct {
	Company        string                 `json:"company"`
	ContactName    string                 `json:"contact_name,omitempty"`
	ContactMethod  outreach.ContactMethod `json:"contact_method,omitempty"`
	ApplicationIDs []uuid.UUID            `json:"application_ids,omitempty"`
}

func (c *Client) CreateThread(ctx context.Context, company, contactName string, method outreach.ContactMethod) (*outreach.Thread, error) {
	var thread outreach.Thread
	req := createThreadRequest{Company: company, ContactName: contactName, ContactMethod: method}
	if err := c.do(ctx, http.MethodPost, "/api/outreach/threads", req, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *Client) ListMessages(ctx context.Context, threadID uuid.UUID) ([]outreach.Message, error) {
	var resp listResponse[outreach.Message]
	if err := c.do(ctx, http.MethodGet, "/api/outreach/threads/"+threadID.String()+"/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type createMessageRequest struct {
	Direction outreach.MessageDirection `json:"direction"`
	Content   string                    `json:"content"`
	MessageAt *time.Time                `json:"message_at,omitempty"`
}

func (c *Client) AddMessage(ctx context.Context, threadID uuid.UUID, direction outreach.MessageDirection, content string) (*outreach.Message, error) {
	var msg outreach.Message
	req := createMessageRequest{Direction: direction, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/outreach/threads/"+threadID.String()+"/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GenerateOutreachRequest mirrors the server's generation options; zero
// values fall back to server defaults (or the template's, when set).
type GenerateOutreachRequest struct {
	Company     string                 `json:"company"`
	ContactName string                 `json:"contact_name,omitempty"`
	Style       outreach.WritingStyle  `json:"style,omitempty"`
	Length      outreach.MessageLength `json:"length,omitempty"`
	TemplateID  *uuid.UUID             `json:"template_id,omitempty"`
	JDText      string                 `json:"jd_text,omitempty"`
}

func (c *Client) GenerateOutreach(ctx context.Context, req GenerateOutreachRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/outreach/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type generateReplyRequest struct {
	ThreadID     uuid.UUID `json:"thread_id"`
	Instructions string    `json:"instructions,omitempty"`
}

func (c *Client) GenerateReply(ctx context.Context, threadID uuid.UUID, instructions string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	req := generateReplyRequest{ThreadID: threadID, Instructions: instructions}
	if err := c.do(ctx, http.MethodPost, "/api/outreach/generate-reply", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
