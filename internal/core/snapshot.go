package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot marks a document that parsed as JSON but does not have
// the ledger shape (all four collections plus a settings record).
var ErrInvalidSnapshot = errors.New("invalid ledger snapshot")

// snapshotProbe mirrors LedgerState with pointer fields so absent keys can be
// told apart from empty collections during import validation.
type snapshotProbe struct {
	Transactions  *[]Transaction  `json:"transactions"`
	Debts         *[]Debt         `json:"debts"`
	Goals         *[]Goal         `json:"goals"`
	FixedExpenses *[]FixedExpense `json:"fixedExpenses"`
	Settings      *Settings       `json:"settings"`
}

// ParseSnapshot decodes and structurally validates an exported ledger
// document. Malformed JSON and documents missing any collection or the
// settings record are rejected without producing a partial state.
func ParseSnapshot(data []byte) (*LedgerState, error) {
	var probe snapshotProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if probe.Transactions == nil || probe.Debts == nil || probe.Goals == nil ||
		probe.FixedExpenses == nil || probe.Settings == nil {
		return nil, ErrInvalidSnapshot
	}
	return &LedgerState{
		Transactions:  *probe.Transactions,
		Debts:         *probe.Debts,
		Goals:         *probe.Goals,
		FixedExpenses: *probe.FixedExpenses,
		Settings:      *probe.Settings,
	}, nil
}

// DecodeState loads a persisted ledger document. Unlike ParseSnapshot it
// tolerates a missing settings record, backfilling the default display
// currency, since early persisted states predate the settings field.
func DecodeState(data []byte) (*LedgerState, error) {
	var s LedgerState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode ledger state: %w", err)
	}
	if s.Settings.Currency == "" {
		s.Settings.Currency = BaseCurrency
	}
	return &s, nil
}

// EncodeState serializes the ledger for persistence and export.
func EncodeState(s *LedgerState) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ledger state: %w", err)
	}
	return data, nil
}
