package api

import (
	"context"

	"wave-client/internal/models"
)

type textBody struct {
	Text string `json:"text"`
}

// Chat sends a message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	var reply string
	err := c.field(ctx, post([]string{"chat"}, textBody{Text: text}, ""), "reply", &reply)
	return reply, err
}

// PersonalizedChat sends a message with persona and history context.
func (c *Client) PersonalizedChat(ctx context.Context, req models.PersonalizedChatRequest) (string, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []any{}
	}
	var reply string
	err := c.field(ctx, post([]string{"chat", "personalized"}, req, ""), "reply", &reply)
	return reply, err
}

// TherapeuticFlow advances a guided flow and returns the guidance text.
func (c *Client) TherapeuticFlow(ctx context.Context, req models.FlowStepRequest) (string, error) {
	var guidance string
	err := c.field(ctx, post([]string{"therapeutic-flow"}, req, ""), "guidance", &guidance)
	return guidance, err
}

// Moderate reports whether text is flagged.
func (c *Client) Moderate(ctx context.Context, text string) (bool, error) {
	var flagged bool
	err := c.field(ctx, post([]string{"moderate"}, textBody{Text: text}, ""), "flagged", &flagged)
	return flagged, err
}
