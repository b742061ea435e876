// Package ledger owns the canonical budget state and guarantees its
// invariants across mutations. Mutations are staged on a copy and become
// visible only after the snapshot store accepted the new state, so a failed
// save never leaves memory ahead of the durable store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"carteira/internal/core"
)

// ErrNoSnapshot is returned by SnapshotStore.Load when nothing has been
// persisted yet.
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotStore is the durable key-value document store behind the ledger.
type SnapshotStore interface {
	Save(ctx context.Context, state *core.LedgerState) error
	Load(ctx context.Context) (*core.LedgerState, error)
}

type Store struct {
	mu        sync.Mutex
	state     *core.LedgerState
	snapshots SnapshotStore
	lastID    int64
	now       func() time.Time
}

// Open loads the persisted ledger, seeding starter data on first run.
func Open(ctx context.Context, snapshots SnapshotStore) (*Store, error) {
	s := &Store{snapshots: snapshots, now: time.Now}

	state, err := snapshots.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		state = SeedState(s.now())
		if err := snapshots.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("persist seed state: %w", err)
		}
		slog.InfoContext(ctx, "Ledger seeded with starter data",
			"debts", len(state.Debts),
			"goals", len(state.Goals),
			"fixed_expenses", len(state.FixedExpenses))
	case err != nil:
		return nil, fmt.Errorf("load ledger state: %w", err)
	}

	s.state = state
	s.lastID = maxID(state)
	return s, nil
}

// New wraps an existing state without touching persistence. Used by tests
// and the import path.
func New(state *core.LedgerState, snapshots SnapshotStore) *Store {
	return &Store{
		state:     state,
		snapshots: snapshots,
		lastID:    maxID(state),
		now:       time.Now,
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *core.LedgerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Currency returns the current display currency.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings.Currency
}

// AddTransaction converts the display-currency amount to the base currency
// and appends a new transaction. Validation failures leave the state
// untouched.
func (s *Store) AddTransaction(ctx context.Context, typ core.TransactionType, description string, amount float64, currency, category string) (core.Transaction, error) {
	amountBase, err := core.ToBase(amount, currency)
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:          s.nextID(),
		Type:        typ,
		Description: description,
		Amount:      amountBase,
		Category:    category,
		Date:        s.now(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	next := s.state.Clone()
	next.Transactions = append(next.Transactions, t)
	if err := s.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// DeleteTransaction removes the matching entry. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	kept := next.Transactions[:0]
	removed := false
	for _, t := range next.Transactions {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return nil
	}
	next.Transactions = kept
	return s.commit(ctx, next)
}

// AddDebt records a new debt with remaining initialized to the total.
func (s *Store) AddDebt(ctx context.Context, name string, total float64) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := core.Debt{ID: s.nextID(), Name: name, Total: total, Remaining: total}
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	next := s.state.Clone()
	next.Debts = append(next.Debts, d)
	if err := s.commit(ctx, next); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func (s *Store) DeleteDebt(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	kept := next.Debts[:0]
	removed := false
	for _, d := range next.Debts {
		if d.ID == id {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		return nil
	}
	next.Debts = kept
	return s.commit(ctx, next)
}

// AddGoal records a new savings goal starting at zero.
func (s *Store) AddGoal(ctx context.Context, name string, target float64, category string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := core.Goal{ID: s.nextID(), Name: name, Target: target, Saved: 0, Category: category}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	next := s.state.Clone()
	next.Goals = append(next.Goals, g)
	if err := s.commit(ctx, next); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	kept := next.Goals[:0]
	removed := false
	for _, g := range next.Goals {
		if g.ID == id {
			removed = true
			continue
		}
		kept = append(kept, g)
	}
	if !removed {
		return nil
	}
	next.Goals = kept
	return s.commit(ctx, next)
}

func (s *Store) AddFixedExpense(ctx context.Context, name string, amount float64, paymentMethod string) (core.FixedExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fe := core.FixedExpense{ID: s.nextID(), Name: name, Amount: amount, PaymentMethod: paymentMethod}
	if err := fe.Validate(); err != nil {
		return core.FixedExpense{}, err
	}
	next := s.state.Clone()
	next.FixedExpenses = append(next.FixedExpenses, fe)
	if err := s.commit(ctx, next); err != nil {
		return core.FixedExpense{}, err
	}
	return fe, nil
}

func (s *Store) DeleteFixedExpense(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	kept := next.FixedExpenses[:0]
	removed := false
	for _, fe := range next.FixedExpenses {
		if fe.ID == id {
			removed = true
			continue
		}
		kept = append(kept, fe)
	}
	if !removed {
		return nil
	}
	next.FixedExpenses = kept
	return s.commit(ctx, next)
}

// PayDebt applies a payment in the current display currency. The paid amount
// is clamped to the remaining balance so it never goes negative, and an
// expense transaction for the clamped amount is appended.
func (s *Store) PayDebt(ctx context.Context, id int64, amount float64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amountBase, err := core.ToBase(amount, s.state.Settings.Currency)
	if err != nil {
		return core.Transaction{}, err
	}

	next := s.state.Clone()
	for i := range next.Debts {
		d := &next.Debts[i]
		if d.ID != id {
			continue
		}
		paid := min(amountBase, d.Remaining)
		d.Remaining -= paid

		t := core.Transaction{
			ID:          s.nextID(),
			Type:        core.Expense,
			Description: "Pagamento Dívida: " + d.Name,
			Amount:      paid,
			Category:    core.PaymentCategory,
			Date:        s.now(),
		}
		next.Transactions = append(next.Transactions, t)
		if err := s.commit(ctx, next); err != nil {
			return core.Transaction{}, err
		}
		return t, nil
	}
	return core.Transaction{}, fmt.Errorf("debt %d: %w", id, core.ErrNotFound)
}

// ContributeGoal applies a contribution in the current display currency,
// clamped so saved never exceeds the target.
func (s *Store) ContributeGoal(ctx context.Context, id int64, amount float64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amountBase, err := core.ToBase(amount, s.state.Settings.Currency)
	if err != nil {
		return core.Transaction{}, err
	}

	next := s.state.Clone()
	for i := range next.Goals {
		g := &next.Goals[i]
		if g.ID != id {
			continue
		}
		contributed := min(amountBase, g.Target-g.Saved)
		g.Saved += contributed

		t := core.Transaction{
			ID:          s.nextID(),
			Type:        core.Expense,
			Description: "Contribuição Compra: " + g.Name,
			Amount:      contributed,
			Category:    core.PaymentCategory,
			Date:        s.now(),
		}
		next.Transactions = append(next.Transactions, t)
		if err := s.commit(ctx, next); err != nil {
			return core.Transaction{}, err
		}
		return t, nil
	}
	return core.Transaction{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
}

// SetCurrency updates the display currency. Stored amounts are untouched;
// conversion happens on read only.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if !core.SupportedCurrency(code) {
		return core.ErrUnknownCurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Settings.Currency = code
	return s.commit(ctx, next)
}

// Reset empties every collection while preserving the settings record.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := core.NewState()
	next.Settings = s.state.Settings
	return s.commit(ctx, next)
}

// Import replaces the whole state with an exported document. A document that
// fails structural validation leaves the current state untouched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	state, err := core.ParseSnapshot(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, state); err != nil {
		return err
	}
	s.lastID = maxID(state)
	return nil
}

// Export serializes the current state as the backup document.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.EncodeState(s.state)
}

// commit persists next and, only on success, installs it as the current
// state. Callers hold the lock. A failed save leaves the in-memory state
// exactly as it was, so memory and the durable store never diverge.
func (s *Store) commit(ctx context.Context, next *core.LedgerState) error {
	if err := s.snapshots.Save(ctx, next); err != nil {
		return fmt.Errorf("persist ledger state: %w", err)
	}
	s.state = next
	return nil
}

// nextID derives ids from the wall clock in milliseconds, bumped past the
// previous id so ids stay strictly increasing within one store.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func maxID(s *core.LedgerState) int64 {
	var max int64
	for _, t := range s.Transactions {
		if t.ID > max {
			max = t.ID
		}
	}
	for _, d := range s.Debts {
		if d.ID > max {
			max = d.ID
		}
	}
	for _, g := range s.Goals {
		if g.ID > max {
			max = g.ID
		}
	}
	for _, fe := range s.FixedExpenses {
		if fe.ID > max {
			max = fe.ID
		}
	}
	return max
}
