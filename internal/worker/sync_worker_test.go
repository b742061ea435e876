package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/sheets/memory"
	"carteira/internal/storage"
)

func TestHandleLedgerEventMirrorsSnapshot(t *testing.T) {
	ctx := context.Background()
	snapshots := storage.NewMemoryStore()

	state := core.NewState()
	state.Transactions = []core.Transaction{
		{ID: 1, Type: core.Income, Description: "Salário", Amount: 1000, Category: "Trabalho", Date: time.Now()},
		{ID: 2, Type: core.Expense, Description: "Mercado", Amount: 250, Category: "Alimentação", Date: time.Now()},
	}
	if err := snapshots.Save(ctx, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mirror := memory.New()
	w := NewSyncWorker(snapshots, mirror)

	msg := amqp.NewLedgerEventMessage(amqp.EntityTransaction, 1, amqp.OpCreated)
	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerEvent() error = %v", err)
	}

	rows := mirror.Rows()
	if len(rows) != 2 {
		t.Fatalf("mirrored rows = %d, want 2", len(rows))
	}
	if rows[0].Description != "Salário" {
		t.Errorf("rows[0].Description = %q, want %q", rows[0].Description, "Salário")
	}
}

func TestResyncWithoutSnapshotMirrorsEmptyList(t *testing.T) {
	mirror := memory.New()
	w := NewSyncWorker(storage.NewMemoryStore(), mirror)

	if err := w.Resync(context.Background()); err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if got := len(mirror.Rows()); got != 0 {
		t.Errorf("mirrored rows = %d, want 0", got)
	}
	if mirror.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", mirror.Calls())
	}
}

type failingMirror struct{}

func (failingMirror) MirrorTransactions(context.Context, []core.Transaction) error {
	return errors.New("sheet unavailable")
}

func TestHandleLedgerEventReturnsMirrorError(t *testing.T) {
	w := NewSyncWorker(storage.NewMemoryStore(), failingMirror{})

	msg := amqp.NewLedgerEventMessage(amqp.EntityDebt, 7, amqp.OpPaid)
	err := w.HandleLedgerEvent(context.Background(), msg)
	if err == nil {
		t.Fatal("HandleLedgerEvent() error = nil, want mirror failure")
	}
}

func TestRunPeriodicResyncStopsOnContextCancel(t *testing.T) {
	mirror := memory.New()
	w := NewSyncWorker(storage.NewMemoryStore(), mirror)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.RunPeriodicResync(ctx, 10*time.Millisecond)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunPeriodicResync() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunPeriodicResync did not stop after cancel")
	}

	if mirror.Calls() == 0 {
		t.Error("expected at least one periodic resync")
	}
}
