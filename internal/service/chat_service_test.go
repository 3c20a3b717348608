package service

import (
	"context"
	"net/http"
	"testing"

	"wave-client/internal/api"
	"wave-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChatService_SendModeratesFirst(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/moderate", http.StatusOK, map[string]any{"flagged": false})
	f.backend.handle("POST /api/chat", http.StatusOK, map[string]any{"reply": "I'm here."})
	svc := NewChatService(f.client, zap.NewNop())

	reply, err := svc.Send(context.Background(), " rough day ")
	require.NoError(t, err)
	assert.Equal(t, "I'm here.", reply)

	chat := f.backend.requests(http.MethodPost, "/api/chat")
	require.Len(t, chat, 1)
	assert.Equal(t, map[string]any{"text": "rough day"}, chat[0].Body)
}

func TestChatService_FlaggedIsRefused(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/moderate", http.StatusOK, map[string]any{"flagged": true})
	svc := NewChatService(f.client, zap.NewNop())

	_, err := svc.Send(context.Background(), "something unsafe")
	assert.ErrorIs(t, err, ErrFlagged)
	assert.Empty(t, f.backend.requests(http.MethodPost, "/api/chat"))

	_, err = svc.Send(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatService_ModerationMissingField(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/moderate", http.StatusOK, map[string]any{})
	svc := NewChatService(f.client, zap.NewNop())

	_, err := svc.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, api.ErrMissingField)
}

func TestChatService_PassThroughs(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/chat/personalized", http.StatusOK, map[string]any{"reply": "hey"})
	f.backend.handle("POST /api/therapeutic-flow", http.StatusOK, map[string]any{"guidance": "breathe in"})
	svc := NewChatService(f.client, zap.NewNop())

	reply, err := svc.Personalized(context.Background(), models.PersonalizedChatRequest{Text: "hi", Persona: "friend"})
	require.NoError(t, err)
	assert.Equal(t, "hey", reply)

	guidance, err := svc.FlowStep(context.Background(), models.FlowStepRequest{FlowID: "box", StepID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "breathe in", guidance)

	sent := f.backend.requests(http.MethodPost, "/api/chat/personalized")
	require.Len(t, sent, 1)
	assert.Equal(t, []any{}, sent[0].Body["conversationHistory"])
}
