package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"wave-client/internal/api"
	"wave-client/internal/models"
	"wave-client/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMoodService_SaveThenRefresh(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/mood", http.StatusOK, map[string]any{"ok": true})
	f.backend.handle("GET /api/mood", http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": 1, "mood": 4, "note": "hi", "created_at": "2026-10-15T10:00:00Z"}},
	})
	svc := NewMoodService(f.client, f.ids, signedOut, zap.NewNop())

	items, err := svc.Save(context.Background(), 4, "  hi  ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Mood)

	posts := f.backend.requests(http.MethodPost, "/api/mood")
	require.Len(t, posts, 1)
	assert.Equal(t, map[string]any{"mood": float64(4), "note": "hi", "deviceId": testDeviceID}, posts[0].Body)
	assert.Empty(t, posts[0].Authorization)

	lists := f.backend.requests(http.MethodGet, "/api/mood")
	require.Len(t, lists, 1)
	assert.Equal(t, "deviceId="+testDeviceID, lists[0].Query)
}

func TestMoodService_SignedInSendsTokenOnly(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/mood", http.StatusOK, map[string]any{})
	f.backend.handle("GET /api/mood", http.StatusOK, map[string]any{})
	svc := NewMoodService(f.client, f.ids, session.Static{Token: "tok-1"}, zap.NewNop())

	items, err := svc.Save(context.Background(), 2, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	post := f.backend.requests(http.MethodPost, "/api/mood")[0]
	assert.Equal(t, "Bearer tok-1", post.Authorization)
	assert.Equal(t, map[string]any{"mood": float64(2), "deviceId": testDeviceID}, post.Body)

	list := f.backend.requests(http.MethodGet, "/api/mood")[0]
	assert.Equal(t, "Bearer tok-1", list.Authorization)
	assert.Empty(t, list.Query)
}

func TestMoodService_RejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	svc := NewMoodService(f.client, f.ids, signedOut, zap.NewNop())

	for _, mood := range []int{0, 6, -1} {
		_, err := svc.Save(context.Background(), mood, "")
		assert.ErrorIs(t, err, ErrInvalidMood)
	}
	assert.Equal(t, 0, f.backend.total())
}

func TestMoodService_DoubleSubmitSendsTwice(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("POST /api/mood", http.StatusOK, map[string]any{})
	f.backend.handle("GET /api/mood", http.StatusOK, map[string]any{"items": []any{}})
	svc := NewMoodService(f.client, f.ids, signedOut, zap.NewNop())

	_, err := svc.Save(context.Background(), 3, "")
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), 3, "")
	require.NoError(t, err)

	assert.Len(t, f.backend.requests(http.MethodPost, "/api/mood"), 2)
}

func TestMoodService_BackendErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.backend.handle("GET /api/mood", http.StatusServiceUnavailable, map[string]any{"error": "down"})
	svc := NewMoodService(f.client, f.ids, signedOut, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, api.ErrStatus)
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func moodAt(mood int, at time.Time) models.MoodItem {
	return models.MoodItem{Mood: mood, CreatedAt: models.Timestamp{Time: at}}
}

func TestWeeklyAverage(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	items := []models.MoodItem{
		moodAt(5, now.Add(-time.Hour)),
		moodAt(4, now.Add(-3*24*time.Hour)),
		moodAt(4, now.Add(-7*24*time.Hour)),
		moodAt(1, now.Add(-8*24*time.Hour)),
		{Mood: 1},
	}

	assert.Len(t, LastWeek(items, now), 3)
	assert.Equal(t, 4.3, WeeklyAverage(items, now))
	assert.Equal(t, float64(0), WeeklyAverage(nil, now))
	assert.Equal(t, float64(0), WeeklyAverage(items[3:], now))
}

func TestNeedsCalm(t *testing.T) {
	assert.True(t, NeedsCalm(2, nil))
	assert.False(t, NeedsCalm(3, nil))
	assert.True(t, NeedsCalm(4, []models.MoodItem{{Mood: 1}, {Mood: 5}}))
	assert.False(t, NeedsCalm(4, []models.MoodItem{{Mood: 5}, {Mood: 1}}))
}

func TestMoodMeta(t *testing.T) {
	assert.Equal(t, "Very Low", MoodMeta(1).Label)
	assert.Equal(t, "Great", MoodMeta(5).Label)
	assert.Equal(t, "Neutral", MoodMeta(9).Label)
}
