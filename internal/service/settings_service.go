package service

import (
	"context"
	"errors"
	"fmt"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/models"
	"wave-client/internal/session"

	"go.uber.org/zap"
)

// Account is what the settings page shows about the current device.
type Account struct {
	DeviceID string        `json:"device_id"`
	AuthorID string        `json:"author_id"`
	User     *session.User `json:"user,omitempty"`
}

// SettingsService covers the settings page.
type SettingsService interface {
	Account(ctx context.Context) (*Account, error)
	// DeleteAllData removes every mood and journal entry. Both deletes are
	// attempted even if the first fails.
	DeleteAllData(ctx context.Context) error
	// Claim attaches this device's anonymous records to the signed-in account.
	Claim(ctx context.Context) (models.Object, error)
}

type settingsService struct {
	base
}

func NewSettingsService(client *api.Client, ids *identity.Provider, sess session.Provider, logger *zap.Logger) SettingsService {
	return &settingsService{base{client: client, ids: ids, session: sess, logger: logger}}
}

func (s *settingsService) Account(ctx context.Context) (*Account, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &Account{
		DeviceID: s.ids.DeviceID(ctx),
		AuthorID: s.ids.AuthorID(ctx),
		User:     user,
	}, nil
}

func (s *settingsService) DeleteAllData(ctx context.Context) error {
	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return err
	}

	var errs []error
	if _, err := s.client.MoodDeleteAll(ctx, deviceID, token); err != nil {
		errs = append(errs, fmt.Errorf("delete moods: %w", err))
	}
	if _, err := s.client.JournalDeleteAll(ctx, deviceID, token); err != nil {
		errs = append(errs, fmt.Errorf("delete journal: %w", err))
	}
	if len(errs) == 0 {
		s.logger.Info("All mood and journal data deleted", zap.Bool("signed_in", token != ""))
	}
	return errors.Join(errs...)
}

func (s *settingsService) Claim(ctx context.Context) (models.Object, error) {
	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.client.Claim(ctx, deviceID, token)
	if err != nil {
		return nil, fmt.Errorf("claim device data: %w", err)
	}
	s.logger.Info("Device data claimed")
	return out, nil
}
