// Package storage provides durable key/value stores for client-side state
// that must survive restarts, such as the session token.
package storage

import (
	"errors"
	"sync"
)

// ErrEmptyKey is returned when a store is asked to operate on an empty key.
var ErrEmptyKey = errors.New("storage: empty key")

// Store is a minimal string key/value store. Set and Remove are synchronous:
// when they return nil the change is durable.
type Store interface {
	// Get returns the value under key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes value under key.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// MemoryStore keeps values in process memory only. Useful for tests and for
// sessions that must not outlive the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
