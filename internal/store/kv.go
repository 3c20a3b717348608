package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("key not found")

// ErrStorageUnavailable wraps any backend failure other than a miss.
var ErrStorageUnavailable = errors.New("storage unavailable")

// KV is the persistent key-value storage behind identities and preferences.
// ttl <= 0 means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrStorageUnavailable, op, key, err)
}

// MemoryKV is a process-local KV.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]memoryItem
}

type memoryItem struct {
	value   string
	expires time.Time // zero = no ttl
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryItem)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	if !item.expires.IsZero() && time.Now().After(item.expires) {
		delete(m.data, key)
		return "", ErrMiss
	}
	return item.value, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.data[key] = memoryItem{value: value, expires: exp}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// prefixedKV namespaces every key.
type prefixedKV struct {
	kv     KV
	prefix string
}

// Prefixed returns kv with every key stored as "<namespace>:<key>".
// An empty namespace returns kv unchanged.
func Prefixed(kv KV, namespace string) KV {
	if namespace == "" {
		return kv
	}
	return &prefixedKV{kv: kv, prefix: namespace + ":"}
}

func (p *prefixedKV) Get(ctx context.Context, key string) (string, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *prefixedKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return p.kv.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixedKV) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}
