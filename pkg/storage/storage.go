package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys owned by the session manager. No other component writes them.
const (
	KeySession = "session"
	KeyUserID  = "userId"
)

// Store persists a small set of string values on the device.
// Setting a nil value erases the key. Values are JSON-encoded so the
// stored representation round-trips losslessly.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value *string) error
}

// FileStore keeps one file per key under a private directory,
// standing in for the platform secure storage.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: can't create state dir `%s`, %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	raw, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return ``, false, nil
	}
	if err != nil {
		return ``, false, fmt.Errorf("storage: can't read key `%s`, %w", key, err)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ``, false, fmt.Errorf("storage: can't decode key `%s`, %w", key, err)
	}
	return value, true, nil
}

func (fs *FileStore) Set(_ context.Context, key string, value *string) error {
	if value == nil {
		err := os.Remove(fs.path(key))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: can't remove key `%s`, %w", key, err)
		}
		return nil
	}

	raw, err := json.Marshal(*value)
	if err != nil {
		return fmt.Errorf("storage: can't encode key `%s`, %w", key, err)
	}
	if err := os.WriteFile(fs.path(key), raw, 0o600); err != nil {
		return fmt.Errorf("storage: can't write key `%s`, %w", key, err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and throwaway sessions.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (ms *MemStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	v, ok := ms.values[key]
	return v, ok, nil
}

func (ms *MemStore) Set(_ context.Context, key string, value *string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if value == nil {
		delete(ms.values, key)
		return nil
	}
	ms.values[key] = *value
	return nil
}
