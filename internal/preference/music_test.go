package preference

import (
	"context"
	"errors"
	"testing"
	"time"

	"wave-client/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, error) {
	return "", errors.New("localStorage disabled")
}
func (brokenKV) Set(context.Context, string, string, time.Duration) error {
	return errors.New("quota exceeded")
}
func (brokenKV) Delete(context.Context, string) error { return nil }

func TestMusic_SetPlayingPersistsStringFlag(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	m := NewMusic(kv)

	require.NoError(t, m.SetPlaying(ctx, true))
	raw, err := kv.Get(ctx, MusicKey)
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	playing, err := m.SavedPlaying(ctx)
	require.NoError(t, err)
	assert.True(t, playing)

	require.NoError(t, m.SetPlaying(ctx, false))
	raw, err = kv.Get(ctx, MusicKey)
	require.NoError(t, err)
	assert.Equal(t, "false", raw)
}

func TestMusic_FreshStartNeverAutoplays(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, NewMusic(kv).SetPlaying(ctx, true))

	restarted := NewMusic(kv)
	saved, err := restarted.SavedPlaying(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, restarted.InitialPlaying())
}

func TestMusic_MissingKeyReadsFalse(t *testing.T) {
	playing, err := NewMusic(store.NewMemoryKV()).SavedPlaying(context.Background())
	require.NoError(t, err)
	assert.False(t, playing)
}

func TestMusic_StorageErrorsPropagate(t *testing.T) {
	m := NewMusic(brokenKV{})

	_, err := m.SavedPlaying(context.Background())
	require.Error(t, err)
	require.Error(t, m.SetPlaying(context.Background(), true))
}
