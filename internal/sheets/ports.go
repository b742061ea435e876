package sheets

import (
	"context"

	"carteira/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionMirror replaces the off-site copy of the transaction list
	// with the given snapshot.
	TransactionMirror interface {
		MirrorTransactions(ctx context.Context, transactions []core.Transaction) error
	}
)
