package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "wave-device-id")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "wave-device-id", "abc-123", 0))
	v, err := kv.Get(ctx, "wave-device-id")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", v)

	require.NoError(t, kv.Delete(ctx, "wave-device-id"))
	_, err = kv.Get(ctx, "wave-device-id")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_TTLExpires(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.Set(ctx, "short", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := kv.Get(ctx, "short")
	require.ErrorIs(t, err, ErrMiss)
}

func TestPrefixed_NamespacesKeys(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryKV()
	a := Prefixed(base, "kiosk-a")
	b := Prefixed(base, "kiosk-b")

	require.NoError(t, a.Set(ctx, "wave-uid", "ua", 0))
	require.NoError(t, b.Set(ctx, "wave-uid", "ub", 0))

	va, err := a.Get(ctx, "wave-uid")
	require.NoError(t, err)
	vb, err := b.Get(ctx, "wave-uid")
	require.NoError(t, err)
	assert.Equal(t, "ua", va)
	assert.Equal(t, "ub", vb)

	raw, err := base.Get(ctx, "kiosk-a:wave-uid")
	require.NoError(t, err)
	assert.Equal(t, "ua", raw)

	require.NoError(t, a.Delete(ctx, "wave-uid"))
	_, err = base.Get(ctx, "kiosk-a:wave-uid")
	require.ErrorIs(t, err, ErrMiss)

	assert.Same(t, base, Prefixed(base, "").(*MemoryKV))
}

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	first := NewFileKV(path)
	_, err := first.Get(ctx, "wave-music-playing")
	require.ErrorIs(t, err, ErrMiss)
	require.NoError(t, first.Set(ctx, "wave-music-playing", "true", 0))
	require.NoError(t, first.Set(ctx, "wave-device-id", "dev-1", 0))

	second := NewFileKV(path)
	v, err := second.Get(ctx, "wave-music-playing")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, second.Delete(ctx, "wave-music-playing"))
	_, err = first.Get(ctx, "wave-music-playing")
	require.ErrorIs(t, err, ErrMiss)

	v, err = first.Get(ctx, "wave-device-id")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", v)
	assert.Equal(t, path, first.Path())
}

func TestFileKV_ExpiredEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(filepath.Join(t.TempDir(), "storage.json"))

	require.NoError(t, kv.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestFileKV_CorruptFileIsUnavailable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	kv := NewFileKV(path)
	_, err := kv.Get(ctx, "wave-device-id")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	err = kv.Set(ctx, "wave-device-id", "x", 0)
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileKV_EmptyFileIsEmptyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewFileKV(path).Get(ctx, "anything")
	require.ErrorIs(t, err, ErrMiss)
}
