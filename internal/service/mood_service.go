package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/models"
	"wave-client/internal/session"

	"go.uber.org/zap"
)

// MoodService covers the mood page.
type MoodService interface {
	Refresh(ctx context.Context) ([]models.MoodItem, error)
	// Save posts a mood entry and returns the refreshed list. Every call is
	// sent; nothing is de-duplicated.
	Save(ctx context.Context, mood int, note string) ([]models.MoodItem, error)
}

type moodService struct {
	base
}

func NewMoodService(client *api.Client, ids *identity.Provider, sess session.Provider, logger *zap.Logger) MoodService {
	return &moodService{base{client: client, ids: ids, session: sess, logger: logger}}
}

func (s *moodService) Refresh(ctx context.Context) ([]models.MoodItem, error) {
	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.client.MoodList(ctx, deviceID, token)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return list.Items, nil
}

func (s *moodService) Save(ctx context.Context, mood int, note string) ([]models.MoodItem, error) {
	if mood < 1 || mood > 5 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMood, mood)
	}
	deviceID, token, err := s.attribution(ctx)
	if err != nil {
		return nil, err
	}
	entry := models.MoodEntry{Mood: mood, Note: strings.TrimSpace(note), DeviceID: deviceID}
	if _, err := s.client.MoodAdd(ctx, entry, token); err != nil {
		return nil, fmt.Errorf("add mood: %w", err)
	}
	s.logger.Info("Mood saved", zap.Int("mood", mood), zap.Bool("signed_in", token != ""))
	return s.Refresh(ctx)
}

// Meta describes a mood level.
type Meta struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

var moodMeta = map[int]Meta{
	1: {Label: "Very Low", Emoji: "😞", Color: "#ef4444"},
	2: {Label: "Low", Emoji: "🙁", Color: "#f97316"},
	3: {Label: "Neutral", Emoji: "😐", Color: "#eab308"},
	4: {Label: "Good", Emoji: "🙂", Color: "#22c55e"},
	5: {Label: "Great", Emoji: "😄", Color: "#10b981"},
}

// MoodMeta returns the label for level; unknown levels read as Neutral.
func MoodMeta(level int) Meta {
	if m, ok := moodMeta[level]; ok {
		return m
	}
	return moodMeta[3]
}

const week = 7 * 24 * time.Hour

// LastWeek keeps items created within seven days of now. Items without a
// timestamp are dropped.
func LastWeek(items []models.MoodItem, now time.Time) []models.MoodItem {
	out := make([]models.MoodItem, 0, len(items))
	for _, it := range items {
		if it.CreatedAt.IsZero() {
			continue
		}
		if now.Sub(it.CreatedAt.Time) <= week {
			out = append(out, it)
		}
	}
	return out
}

// WeeklyAverage is the mean mood of the last seven days to one decimal, 0 when none.
func WeeklyAverage(items []models.MoodItem, now time.Time) float64 {
	recent := LastWeek(items, now)
	if len(recent) == 0 {
		return 0
	}
	sum := 0
	for _, it := range recent {
		sum += it.Mood
	}
	return math.Round(float64(sum)/float64(len(recent))*10) / 10
}

// NeedsCalm reports whether to offer the calming exercise: the selected mood
// or the most recent logged one is 2 or lower. With no history the latest
// mood counts as 3.
func NeedsCalm(selected int, items []models.MoodItem) bool {
	latest := 3
	if len(items) > 0 {
		latest = items[0].Mood
	}
	return selected <= 2 || latest <= 2
}
