// Package service holds the page-level use cases: each call reads identity
// and session at the moment it runs and goes to the backend, nothing cached.
package service

import (
	"context"
	"errors"
	"fmt"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/session"

	"go.uber.org/zap"
)

var (
	ErrInvalidMood     = errors.New("mood must be between 1 and 5")
	ErrEmptyEntry      = errors.New("journal entry is empty")
	ErrEmptyPost       = errors.New("title and body are required")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrUnknownCategory = errors.New("unknown forum category")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrFlagged         = errors.New("message was flagged by moderation")
)

// base is embedded by every service.
type base struct {
	client  *api.Client
	ids     *identity.Provider
	session session.Provider
	logger  *zap.Logger
}

// attribution returns the device id and, when signed in, the access token.
func (b base) attribution(ctx context.Context) (deviceID, token string, err error) {
	token, err = b.session.AccessToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("access token: %w", err)
	}
	return b.ids.DeviceID(ctx), token, nil
}
