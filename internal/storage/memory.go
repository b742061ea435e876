package storage

import (
	"context"
	"sync"

	"carteira/internal/core"
	"carteira/internal/ledger"
)

// MemoryStore keeps the snapshot in process memory. Used by the memory
// backend for local development and by tests.
type MemoryStore struct {
	mu    sync.Mutex
	state *core.LedgerState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, state *core.LedgerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*core.LedgerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, ledger.ErrNoSnapshot
	}
	return m.state.Clone(), nil
}
