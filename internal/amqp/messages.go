package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entities carried by ledger events.
const (
	EntityTransaction  = "transaction"
	EntityDebt         = "debt"
	EntityGoal         = "goal"
	EntityFixedExpense = "fixed_expense"
	EntityLedger       = "ledger"
)

// Operations carried by ledger events.
const (
	OpCreated  = "created"
	OpDeleted  = "deleted"
	OpUpdated  = "updated"
	OpPaid     = "paid"
	OpReset    = "reset"
	OpImported = "imported"
)

// LedgerEventMessage is a lightweight notification that the ledger changed.
// Consumers fetch the current snapshot themselves; the message carries only
// what changed, not the data.
type LedgerEventMessage struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id,omitempty"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event with a fresh message id.
func NewLedgerEventMessage(entity string, entityID int64, op string) *LedgerEventMessage {
	return &LedgerEventMessage{
		ID:        uuid.NewString(),
		Entity:    entity,
		EntityID:  entityID,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
