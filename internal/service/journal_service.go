package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/models"
	"wave-client/internal/session"

	"go.uber.org/zap"
)

// JournalService covers the journal page.
type JournalService interface {
	Refresh(ctx context.Context) ([]models.JournalItem, error)
	// Add posts an entry and returns the refreshed list. capsule is a
	// YYYY-MM-DD date or empty; tags is comma separated.
	Add(ctx context.Context, content, capsule, tags string) ([]models.JournalItem, error)
	// Reflect asks for a reflection. Empty text uses the latest entry and a
	// zero mood uses the latest logged mood.
	Reflect(ctx context.Context, text string, mood int) (models.Object, error)
}

type journalService struct {
	base
}

func NewJournalService(client *api.Client, ids *identity.Provider, sess session.Provider, logger *zap.Logger) JournalService {
	return &journalService{base{client: client, ids: ids, session: sess, logger: logger}}
}

func (s *journalService) Refresh(ctx context.Context) ([]models.JournalItem, error) {
	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.client.JournalList(ctx, deviceID, token)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return list.Items, nil
}

func (s *journalService) Add(ctx context.Context, content, capsule, tags string) ([]models.JournalItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyEntry
	}

	entry := models.JournalEntry{Content: content, Tags: SplitTags(tags)}
	if capsule = strings.TrimSpace(capsule); capsule != "" {
		d, err := models.ParseDate(capsule)
		if err != nil {
			return nil, fmt.Errorf("time capsule: %w", err)
		}
		entry.TimeCapsuleAt = &d
	}

	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return nil, err
	}
	entry.DeviceID = deviceID
	if _, err := s.client.JournalAdd(ctx, entry, token); err != nil {
		return nil, fmt.Errorf("add journal entry: %w", err)
	}
	s.logger.Info("Journal entry saved",
		zap.Int("tags", len(entry.Tags)),
		zap.Bool("time_capsule", entry.TimeCapsuleAt != nil),
	)
	return s.Refresh(ctx)
}

func (s *journalService) Reflect(ctx context.Context, text string, mood int) (models.Object, error) {
	text = strings.TrimSpace(text)
	if text == "" || mood == 0 {
		deviceID, token, err := s.attribution(ctx)
		if err != nil {
			return nil, err
		}
		if text == "" {
			list, err := s.client.JournalList(ctx, deviceID, token)
			if err != nil {
				return nil, fmt.Errorf("list journal: %w", err)
			}
			if len(list.Items) == 0 {
				return nil, ErrEmptyEntry
			}
			text = list.Items[0].Content
		}
		if mood == 0 {
			mood = 3
			list, err := s.client.MoodList(ctx, deviceID, token)
			if err != nil {
				return nil, fmt.Errorf("list moods: %w", err)
			}
			if len(list.Items) > 0 {
				mood = list.Items[0].Mood
			}
		}
	}
	if mood < 1 || mood > 5 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMood, mood)
	}

	out, err := s.client.Reflect(ctx, text, mood)
	if err != nil {
		return nil, fmt.Errorf("reflect: %w", err)
	}
	return out, nil
}

// SplitTags splits a comma separated list, trimming and dropping empties.
func SplitTags(csv string) []string {
	var tags []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CapsuleDue reports whether the entry's time capsule date has passed.
func CapsuleDue(item models.JournalItem, now time.Time) bool {
	return item.TimeCapsuleAt != nil && !item.TimeCapsuleAt.IsZero() && item.TimeCapsuleAt.Before(now)
}
