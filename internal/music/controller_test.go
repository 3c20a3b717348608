package music

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"wave-client/internal/preference"
	"wave-client/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlayer struct {
	plays, pauses int
	playErr       error
	closed        bool
}

func (f *fakePlayer) Play(context.Context) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.plays++
	return nil
}

func (f *fakePlayer) Pause() error {
	f.pauses++
	return nil
}

func (f *fakePlayer) Close() error {
	f.closed = true
	return nil
}

func TestController_StartsPausedEvenWhenSavedPlaying(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	prefs := preference.NewMusic(kv)
	require.NoError(t, prefs.SetPlaying(ctx, true))

	player := &fakePlayer{}
	c := NewController(ctx, player, prefs, zap.NewNop())

	assert.False(t, c.Playing())
	assert.Equal(t, 0, player.plays)
}

func TestController_TogglePersistsIntent(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	prefs := preference.NewMusic(kv)
	player := &fakePlayer{}
	c := NewController(ctx, player, prefs, zap.NewNop())

	assert.True(t, c.Toggle(ctx))
	raw, err := kv.Get(ctx, preference.MusicKey)
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	assert.False(t, c.Toggle(ctx))
	raw, err = kv.Get(ctx, preference.MusicKey)
	require.NoError(t, err)
	assert.Equal(t, "false", raw)

	assert.Equal(t, 1, player.plays)
	assert.Equal(t, 1, player.pauses)

	require.NoError(t, c.Close())
	assert.True(t, player.closed)
	assert.False(t, c.Playing())
}

func TestController_PlaybackFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	prefs := preference.NewMusic(kv)
	player := &fakePlayer{playErr: errors.New("no audio device")}
	c := NewController(ctx, player, prefs, zap.NewNop())

	assert.False(t, c.Toggle(ctx))
	_, err := kv.Get(ctx, preference.MusicKey)
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestExecPlayer_PlayPause(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	track := filepath.Join(t.TempDir(), "ambient.m4a")
	require.NoError(t, os.WriteFile(track, []byte("not really audio"), 0o600))

	p := NewExecPlayer("sleep", []string{"30"}, track, 50, zap.NewNop())
	require.NoError(t, p.Play(context.Background()))
	require.NoError(t, p.Play(context.Background()))
	require.NoError(t, p.Pause())
	require.NoError(t, p.Pause())
	require.NoError(t, p.Close())
}

func TestExecPlayer_MissingTrackOrCommand(t *testing.T) {
	dir := t.TempDir()

	p := NewExecPlayer("sleep", []string{"1"}, filepath.Join(dir, "missing.m4a"), 50, zap.NewNop())
	require.Error(t, p.Play(context.Background()))

	track := filepath.Join(dir, "ambient.m4a")
	require.NoError(t, os.WriteFile(track, []byte("x"), 0o600))
	p = NewExecPlayer("definitely-not-a-player", nil, track, 50, zap.NewNop())
	require.Error(t, p.Play(context.Background()))
}

func TestNewExecPlayer_DerivesArgs(t *testing.T) {
	p := NewExecPlayer("/usr/bin/ffplay", nil, "a.m4a", 30, zap.NewNop())
	assert.Equal(t, []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", "30", "a.m4a"}, p.args)

	p = NewExecPlayer("afplay", nil, "a.m4a", 30, zap.NewNop())
	assert.Equal(t, []string{"a.m4a"}, p.args)
}
