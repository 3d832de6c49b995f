// internal/kvstore/kvstore.go

// Package kvstore provides the durable key-value media the persistence
// adapter sits on. Every backend stores opaque string values under string
// keys; callers own serialization.
package kvstore

import (
	"context"
	"sync"
)

// Store is a minimal durable key-value medium.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore is an in-memory Store, used for tests and as a fallback when
// no durable medium is configured. State does not survive the process.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.store[key]
	return value, exists, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
