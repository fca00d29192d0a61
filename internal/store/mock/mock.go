// Package mock provides an in-memory store.Store for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/faceid/internal/store"
)

// MockStore is a map-backed store.Store with injectable failures.
type MockStore struct {
	mu      sync.Mutex
	entries map[string][]float32

	SaveErr error // returned by Save when set
	LoadErr error // returned by LoadAll when set
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{entries: make(map[string][]float32)}
}

// Save stores a copy of vec under label.
func (m *MockStore) Save(_ context.Context, label string, vec []float32) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := store.ValidateLabel(label); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[label] = append([]float32(nil), vec...)
	return nil
}

// LoadAll returns a copy of the current entries.
func (m *MockStore) LoadAll(_ context.Context) (store.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(store.Snapshot, len(m.entries))
	for label, vec := range m.entries {
		snapshot[label] = append([]float32(nil), vec...)
	}
	return snapshot, nil
}

// Count returns the number of stored labels.
func (m *MockStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}
