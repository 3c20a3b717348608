package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileKV keeps every key in one JSON document on disk. The file is re-read on
// each call so that a user clearing it from outside is observed immediately.
type FileKV struct {
	path string
	mu   sync.Mutex
}

type fileEntry struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file.
func (f *FileKV) Path() string { return f.path }

func (f *FileKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", unavailable("get", key, err)
	}
	entry, ok := doc[key]
	if !ok {
		return "", ErrMiss
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return "", ErrMiss
	}
	return entry.Value, nil
}

func (f *FileKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return unavailable("set", key, err)
	}
	entry := fileEntry{Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl).UTC()
		entry.ExpiresAt = &exp
	}
	doc[key] = entry
	if err := f.write(doc); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return unavailable("delete", key, err)
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	if err := f.write(doc); err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

func (f *FileKV) read() (map[string]fileEntry, error) {
	doc := make(map[string]fileEntry)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corrupt storage file %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileKV) write(doc map[string]fileEntry) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
