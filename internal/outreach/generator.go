package outreach

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmartin/resume-dash/internal/llm"
)

// Generator drafts outreach messages with the user's Gemini key.
type Generator struct {
	Client llm.Client
	Model  string
}

// NewGenerator creates a generator on the default drafting model.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{Client: client, Model: llm.ModelDrafting}
}

// GenerateRequest describes the first message of an outreach.
type GenerateRequest struct {
	Company     string        `json:"company" validate:"required"`
	Style       WritingStyle  `json:"style,omitempty"`
	Length      MessageLength `json:"length,omitempty"`
	Template    string        `json:"-"`
	ContactName string        `json:"contact_name,omitempty"`
	JDText      string        `json:"jd_text,omitempty"`
}

// Generate drafts an initial outreach message.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.Company == "" {
		return "", fmt.Errorf("company is required")
	}
	style, length := defaults(req.Style, req.Length)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s outreach message to someone at %s.\n", styleDescription(style), req.Company)
	if req.ContactName != "" {
		fmt.Fprintf(&sb, "The contact's name is %s.\n", req.ContactName)
	}
	if req.JDText != "" {
		fmt.Fprintf(&sb, "The candidate is interested in this role:\n%s\n", req.JDText)
	}
	if req.Template != "" {
		fmt.Fprintf(&sb, "Use this template as the skeleton, filling in specifics:\n%s\n", req.Template)
	}
	writeLengthBudget(&sb, length)

	draft, err := g.Client.GenerateText(ctx, g.Model, sb.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate message: %w", err)
	}
	return EnforceLimit(strings.TrimSpace(draft), length), nil
}

// Refine rewrites a draft per the user's instructions, keeping style and
// length constraints.
func (g *Generator) Refine(ctx context.Context, original, instructions string, style WritingStyle, length MessageLength) (string, error) {
	if strings.TrimSpace(original) == "" {
		return "", fmt.Errorf("original message is required")
	}
	if strings.TrimSpace(instructions) == "" {
		return "", fmt.Errorf("refinement instructions are required")
	}
	style, length = defaults(style, length)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Rewrite this %s outreach message.\n\nMessage:\n%s\n\nInstructions:\n%s\n",
		styleDescription(style), original, instructions)
	writeLengthBudget(&sb, length)

	draft, err := g.Client.GenerateText(ctx, g.Model, sb.String())
	if err != nil {
		return "", fmt.Errorf("failed to refine message: %w", err)
	}
	return EnforceLimit(strings.TrimSpace(draft), length), nil
}

// GenerateReply drafts the next message in a thread from its history.
func (g *Generator) GenerateReply(ctx context.Context, thread *Thread, history []Message, instructions string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("thread has no messages to reply to")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are drafting the candidate's next message in a conversation with %s", thread.Company)
	if thread.ContactName != "" {
		fmt.Fprintf(&sb, " (contact: %s)", thread.ContactName)
	}
	sb.WriteString(".\n\nConversation so far:\n")
	for _, m := range history {
		who := "Candidate"
		if m.Direction == DirectionReceived {
			who = "Contact"
		}
		fmt.Fprintf(&sb, "%s: %s\n", who, m.Content)
	}
	if strings.TrimSpace(instructions) != "" {
		fmt.Fprintf(&sb, "\nInstructions: %s\n", instructions)
	}
	sb.WriteString("\nWrite only the candidate's reply, no preamble.")

	draft, err := g.Client.GenerateText(ctx, g.Model, sb.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return strings.TrimSpace(draft), nil
}

func defaults(style WritingStyle, length MessageLength) (WritingStyle, MessageLength) {
	if !style.Valid() {
		style = StyleProfessional
	}
	if !length.Valid() {
		length = LengthShort
	}
	return style, length
}

func styleDescription(style WritingStyle) string {
	switch style {
	case StyleSemiFormal:
		return "semi-formal"
	case StyleCasual:
		return "casual"
	case StyleFriend:
		return "warm, friendly"
	default:
		return "professional"
	}
}

func writeLengthBudget(sb *strings.Builder, length MessageLength) {
	limit := CharLimits[length]
	if limit.Strict {
		fmt.Fprintf(sb, "Hard limit: %d characters. The platform truncates anything longer.\n", limit.Limit)
	} else {
		fmt.Fprintf(sb, "Aim for at most %d characters.\n", limit.Limit)
	}
}

// EnforceLimit truncates a message to its strict budget at a word
// boundary. Soft budgets are left to the prompt.
func EnforceLimit(message string, length MessageLength) string {
	limit := CharLimits[length]
	if !limit.Strict || utf8.RuneCountInString(message) <= limit.Limit {
		return message
	}
	runes := []rune(message)[:limit.Limit]
	if i := strings.LastIndexByte(string(runes), ' '); i > 0 {
		return strings.TrimSpace(string(runes)[:i])
	}
	return strings.TrimSpace(string(runes))
}
