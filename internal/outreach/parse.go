package outreach

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmartin/resume-dash/internal/llm"
)

// ParsedMessage is one message extracted from a pasted conversation dump.
type ParsedMessage struct {
	Direction MessageDirection `json:"direction"`
	Content   string           `json:"content"`
	MessageAt *time.Time       `json:"message_at,omitempty"`
}

// ParseResult is the outcome of parsing a conversation dump. When the
// model cannot split the dump into structured messages, the whole input
// comes back as a single raw block with IsRawDump set.
type ParseResult struct {
	Messages  []ParsedMessage `json:"messages"`
	IsRawDump bool            `json:"is_raw_dump"`
}

// rawParsed mirrors the JSON asked of the model. Timestamps arrive as
// free-form strings and are parsed best-effort.
type rawParsed struct {
	Direction string `json:"direction"`
	Content   string `json:"content"`
	MessageAt string `json:"message_at"`
}

// ParseConversation splits a pasted conversation (LinkedIn thread, email
// chain) into directed messages. Any failure mode degrades to the raw-dump
// fallback rather than an error: a dump the user can still attach beats a
// parse error.
func (g *Generator) ParseConversation(ctx context.Context, rawText string) ParseResult {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return ParseResult{Messages: []ParsedMessage{}, IsRawDump: false}
	}

	prompt := `Split this pasted conversation into individual messages. The candidate's own messages have direction "sent"; the other party's have direction "received".

Conversation:
` + rawText + `

Respond with a JSON array: [{"direction": "sent"|"received", "content": "...", "message_at": "ISO timestamp or empty"}]. Preserve message order and original wording. If you cannot tell the messages apart, return an empty array.`

	raw, err := g.Client.GenerateJSON(ctx, g.Model, prompt)
	if err != nil {
		return rawDump(rawText)
	}

	var parsed []rawParsed
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &parsed); err != nil || len(parsed) == 0 {
		return rawDump(rawText)
	}

	messages := make([]ParsedMessage, 0, len(parsed))
	for _, p := range parsed {
		dir := MessageDirection(p.Direction)
		if !dir.Valid() || strings.TrimSpace(p.Content) == "" {
			continue
		}
		m := ParsedMessage{Direction: dir, Content: strings.TrimSpace(p.Content)}
		if ts, err := time.Parse(time.RFC3339, p.MessageAt); err == nil {
			m.MessageAt = &ts
		}
		messages = append(messages, m)
	}
	if len(messages) == 0 {
		return rawDump(rawText)
	}
	return ParseResult{Messages: messages, IsRawDump: false}
}

// rawDump wraps the entire input as one received message flagged as a raw
// dump.
func rawDump(rawText string) ParseResult {
	return ParseResult{
		Messages:  []ParsedMessage{{Direction: DirectionReceived, Content: rawText}},
		IsRawDump: true,
	}
}
