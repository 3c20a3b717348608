// Package preference persists user-chosen toggles across sessions.
package preference

import (
	"context"
	"errors"
	"fmt"

	"wave-client/internal/store"
)

// MusicKey holds "true" or "false".
const MusicKey = "wave-music-playing"

// Music records the last explicit play/pause intent. It never touches audio.
type Music struct {
	kv store.KV
}

func NewMusic(kv store.KV) *Music {
	return &Music{kv: kv}
}

// SavedPlaying reports the stored flag. A missing key reads as false.
func (m *Music) SavedPlaying(ctx context.Context) (bool, error) {
	v, err := m.kv.Get(ctx, MusicKey)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", MusicKey, err)
	}
	return v == "true", nil
}

// SetPlaying writes the flag. Call it on every explicit user toggle.
func (m *Music) SetPlaying(ctx context.Context, playing bool) error {
	v := "false"
	if playing {
		v = "true"
	}
	if err := m.kv.Set(ctx, MusicKey, v, 0); err != nil {
		return fmt.Errorf("write %s: %w", MusicKey, err)
	}
	return nil
}

// InitialPlaying is the indicator state on start-up. It is always false: a
// saved "true" records intent but never autoplays.
func (m *Music) InitialPlaying() bool {
	return false
}
