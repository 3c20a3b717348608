package service

import (
	"context"
	"fmt"
	"strings"

	"wave-client/internal/api"
	"wave-client/internal/models"

	"go.uber.org/zap"
)

// ChatService covers the chat page.
type ChatService interface {
	// Send moderates text first and refuses it with ErrFlagged.
	Send(ctx context.Context, text string) (string, error)
	Personalized(ctx context.Context, req models.PersonalizedChatRequest) (string, error)
	FlowStep(ctx context.Context, req models.FlowStepRequest) (string, error)
	Moderate(ctx context.Context, text string) (bool, error)
}

type chatService struct {
	base
}

func NewChatService(client *api.Client, logger *zap.Logger) ChatService {
	return &chatService{base{client: client, logger: logger}}
}

func (s *chatService) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	flagged, err := s.Moderate(ctx, text)
	if err != nil {
		return "", err
	}
	if flagged {
		s.logger.Info("Chat message flagged by moderation")
		return "", ErrFlagged
	}
	reply, err := s.client.Chat(ctx, text)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}

func (s *chatService) Personalized(ctx context.Context, req models.PersonalizedChatRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyMessage
	}
	reply, err := s.client.PersonalizedChat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("personalized chat: %w", err)
	}
	return reply, nil
}

func (s *chatService) FlowStep(ctx context.Context, req models.FlowStepRequest) (string, error) {
	guidance, err := s.client.TherapeuticFlow(ctx, req)
	if err != nil {
		return "", fmt.Errorf("therapeutic flow %s/%s: %w", req.FlowID, req.StepID, err)
	}
	return guidance, nil
}

func (s *chatService) Moderate(ctx context.Context, text string) (bool, error) {
	flagged, err := s.client.Moderate(ctx, text)
	if err != nil {
		return false, fmt.Errorf("moderate: %w", err)
	}
	return flagged, nil
}
