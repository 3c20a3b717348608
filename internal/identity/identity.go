// Package identity keeps the anonymous identifiers a device uses instead of an account.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wave-client/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys. They must never share a value.
const (
	DeviceKey = "wave-device-id" // mood, journal and settings
	AuthorKey = "wave-uid"       // forum posts, comments, votes and reports
)

// Provider reads identifiers through the KV store, generating them on first use.
type Provider struct {
	kv     store.KV
	logger *zap.Logger

	mu       sync.Mutex
	fallback map[string]string
}

func NewProvider(kv store.KV, logger *zap.Logger) *Provider {
	return &Provider{
		kv:       kv,
		logger:   logger,
		fallback: make(map[string]string),
	}
}

// GetOrCreateID returns the value stored under key. When absent or empty a new
// random UUID is written under key before it is returned. A present value is
// returned unchanged and nothing is written.
func (p *Provider) GetOrCreateID(ctx context.Context, key string) (string, error) {
	cur, err := p.kv.Get(ctx, key)
	switch {
	case err == nil && cur != "":
		return cur, nil
	case err != nil && !errors.Is(err, store.ErrMiss):
		return "", fmt.Errorf("read %s: %w", key, asUnavailable(err))
	}

	gen := uuid.NewString()
	if err := p.kv.Set(ctx, key, gen, 0); err != nil {
		return "", fmt.Errorf("write %s: %w", key, asUnavailable(err))
	}

	p.logger.Debug("Generated anonymous identity", zap.String("key", key))
	return gen, nil
}

// Resolve is GetOrCreateID with the session-scoped fallback: when storage is
// unavailable it returns an in-memory value that is stable for the life of
// the Provider but not persisted.
func (p *Provider) Resolve(ctx context.Context, key string) string {
	id, err := p.GetOrCreateID(ctx, key)
	if err == nil {
		return id
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.fallback[key]; ok {
		return id
	}
	id = uuid.NewString()
	p.fallback[key] = id
	p.logger.Warn("Identity storage unavailable, using session-only identity",
		zap.String("key", key),
		zap.Error(err),
	)
	return id
}

// DeviceID resolves the device identity.
func (p *Provider) DeviceID(ctx context.Context) string {
	return p.Resolve(ctx, DeviceKey)
}

// AuthorID resolves the anonymous forum author identity.
func (p *Provider) AuthorID(ctx context.Context) string {
	return p.Resolve(ctx, AuthorKey)
}

// Forget deletes the persisted value for key. This is the user-driven reset;
// nothing in the client calls it on its own.
func (p *Provider) Forget(ctx context.Context, key string) error {
	p.mu.Lock()
	delete(p.fallback, key)
	p.mu.Unlock()

	if err := p.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, asUnavailable(err))
	}
	return nil
}

func asUnavailable(err error) error {
	if errors.Is(err, store.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
}
