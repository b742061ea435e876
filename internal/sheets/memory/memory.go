// Package memory provides an in-memory transaction mirror, useful for
// tests and for running the worker without Google credentials.
package memory

import (
	"context"
	"sync"

	"carteira/internal/core"
	ports "carteira/internal/sheets"
)

type Mirror struct {
	mu    sync.Mutex
	rows  []core.Transaction
	calls int
}

var _ ports.TransactionMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// MirrorTransactions replaces the stored rows with a copy of the snapshot.
func (m *Mirror) MirrorTransactions(_ context.Context, transactions []core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = make([]core.Transaction, len(transactions))
	copy(m.rows, transactions)
	m.calls++
	return nil
}

// Rows returns a copy of the last mirrored transaction list.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Transaction, len(m.rows))
	copy(out, m.rows)
	return out
}

// Calls reports how many times the mirror was written.
func (m *Mirror) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
