package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/ledger"
	"carteira/internal/sheets"
)

// SyncWorker keeps the Google Sheets mirror in step with the ledger
// snapshot stored in SQLite.
type SyncWorker struct {
	snapshots ledger.SnapshotStore
	mirror    sheets.TransactionMirror
}

func NewSyncWorker(snapshots ledger.SnapshotStore, mirror sheets.TransactionMirror) *SyncWorker {
	return &SyncWorker{
		snapshots: snapshots,
		mirror:    mirror,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP. Every event
// triggers a full re-mirror of the transaction list, so the handler is
// idempotent and ordering between events does not matter.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"message_id", msg.ID,
		"entity", msg.Entity,
		"entity_id", msg.EntityID,
		"op", msg.Op)

	if err := w.Resync(ctx); err != nil {
		return fmt.Errorf("resync after %s/%s: %w", msg.Entity, msg.Op, err)
	}
	return nil
}

// Resync loads the current snapshot and rewrites the mirror from it.
// A missing snapshot mirrors an empty transaction list.
func (w *SyncWorker) Resync(ctx context.Context) error {
	state, err := w.snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrNoSnapshot) {
			state = core.NewState()
		} else {
			return fmt.Errorf("load ledger snapshot: %w", err)
		}
	}

	if err := w.mirror.MirrorTransactions(ctx, state.Transactions); err != nil {
		return fmt.Errorf("mirror transactions: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirror updated",
		"transactions", len(state.Transactions))
	return nil
}

// RunPeriodicResync re-mirrors the snapshot on a fixed interval until the
// context is cancelled. It catches drift when events were lost or the
// sheet was edited by hand.
func (w *SyncWorker) RunPeriodicResync(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
			}
		}
	}
}
