// Package music owns the ambient-audio player and the play/pause toggle.
package music

import (
	"context"
	"sync"

	"wave-client/internal/preference"

	"go.uber.org/zap"
)

// Player is the audio resource. Only the Controller holds one.
type Player interface {
	Play(ctx context.Context) error
	Pause() error
	Close() error
}

// Controller toggles playback and records each explicit choice.
type Controller struct {
	player Player
	prefs  *preference.Music
	logger *zap.Logger

	mu      sync.Mutex
	playing bool
}

// NewController starts paused whatever the saved preference says.
func NewController(ctx context.Context, player Player, prefs *preference.Music, logger *zap.Logger) *Controller {
	c := &Controller{
		player:  player,
		prefs:   prefs,
		logger:  logger,
		playing: prefs.InitialPlaying(),
	}
	if saved, err := prefs.SavedPlaying(ctx); err == nil && saved {
		logger.Debug("Music was playing last session, waiting for explicit play")
	}
	return c
}

// Playing reports the indicator state.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Toggle pauses when playing and plays when paused. A playback failure is
// logged and leaves both the indicator and the saved preference unchanged.
func (c *Controller) Toggle(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		if err := c.player.Pause(); err != nil {
			c.logger.Info("Playback failed", zap.Error(err))
			return c.playing
		}
		c.playing = false
	} else {
		if err := c.player.Play(ctx); err != nil {
			c.logger.Info("Playback failed", zap.Error(err))
			return c.playing
		}
		c.playing = true
	}

	if err := c.prefs.SetPlaying(ctx, c.playing); err != nil {
		c.logger.Warn("Failed to save music preference", zap.Error(err))
	}
	return c.playing
}

// Close stops the player.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	return c.player.Close()
}
