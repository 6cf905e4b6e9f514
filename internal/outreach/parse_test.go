package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConversation_Structured(t *testing.T) {
	client := &cannedClient{json: `[
		{"direction": "sent", "content": "Hi Sam", "message_at": "2025-06-01T10:00:00Z"},
		{"direction": "received", "content": "Hello!", "message_at": ""}
	]`}
	g := NewGenerator(client)

	result := g.ParseConversation(context.Background(), "Hi Sam\nHello!")
	assert.False(t, result.IsRawDump)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, DirectionSent, result.Messages[0].Direction)
	require.NotNil(t, result.Messages[0].MessageAt)
	assert.Nil(t, result.Messages[1].MessageAt)
}

func TestParseConversation_ModelErrorFallsBackToRawDump(t *testing.T) {
	g := NewGenerator(&cannedClient{err: errors.New("quota")})

	result := g.ParseConversation(context.Background(), "some unparseable dump")
	assert.True(t, result.IsRawDump)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, DirectionReceived, result.Messages[0].Direction)
	assert.Equal(t, "some unparseable dump", result.Messages[0].Content)
}

func TestParseConversation_EmptyArrayFallsBack(t *testing.T) {
	g := NewGenerator(&cannedClient{json: `[]`})
	result := g.ParseConversation(context.Background(), "dump")
	assert.True(t, result.IsRawDump)
}

func TestParseConversation_InvalidEntriesDropped(t *testing.T) {
	client := &cannedClient{json: `[
		{"direction": "sideways", "content": "x"},
		{"direction": "sent", "content": "  "},
		{"direction": "sent", "content": "kept"}
	]`}
	g := NewGenerator(client)

	result := g.ParseConversation(context.Background(), "dump")
	assert.False(t, result.IsRawDump)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "kept", result.Messages[0].Content)
}

func TestParseConversation_EmptyInput(t *testing.T) {
	g := NewGenerator(&cannedClient{})
	result := g.ParseConversation(context.Background(), "   ")
	assert.Empty(t, result.Messages)
	assert.False(t, result.IsRawDump)
}
