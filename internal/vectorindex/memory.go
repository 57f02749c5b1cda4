// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// Memory is a VectorIndex held in process memory. Its contents are lost on
// Close.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]types.IndexEntry
}

// NewMemory returns an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]types.IndexEntry)}
}

// Upsert stores copies of entries.
func (m *Memory) Upsert(_ context.Context, entries []types.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		e.Embedding = slices.Clone(e.Embedding)
		e.Metadata = maps.Clone(e.Metadata)
		m.entries[e.ID] = e
	}
	return nil
}

// Query ranks every entry against vec.
func (m *Memory) Query(_ context.Context, vec []float32, k int) ([]types.Hit, error) {
	m.mu.RLock()
	candidates := make([]types.IndexEntry, 0, len(m.entries))
	for _, e := range m.entries {
		candidates = append(candidates, e)
	}
	m.mu.RUnlock()
	return rank(vec, candidates, k)
}

// Count returns the number of entries.
func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}
