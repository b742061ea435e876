package services

import (
	"context"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/ledger"
	applog "carteira/internal/log"
)

// EventPublisher pushes ledger change notifications to interested consumers.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// LedgerService orchestrates ledger mutations and change notifications.
// Mutations are applied and persisted first; publishing is best-effort and
// never fails the request.
type LedgerService struct {
	store     *ledger.Store
	publisher EventPublisher
	logger    *applog.Logger
}

func NewLedgerService(store *ledger.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    applog.Default(applog.ComponentLedger),
	}
}

// Snapshot returns a copy of the current ledger state.
func (s *LedgerService) Snapshot() *core.LedgerState {
	return s.store.Snapshot()
}

// Currency returns the current display currency.
func (s *LedgerService) Currency() string {
	return s.store.Currency()
}

func (s *LedgerService) AddTransaction(ctx context.Context, typ core.TransactionType, description string, amount float64, currency, category string) (core.Transaction, error) {
	t, err := s.store.AddTransaction(ctx, typ, description, amount, currency, category)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityTransaction, t.ID, amqp.OpCreated))
	return t, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityTransaction, id, amqp.OpDeleted))
	return nil
}

func (s *LedgerService) AddDebt(ctx context.Context, name string, total float64) (core.Debt, error) {
	d, err := s.store.AddDebt(ctx, name, total)
	if err != nil {
		return core.Debt{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityDebt, d.ID, amqp.OpCreated))
	return d, nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityDebt, id, amqp.OpDeleted))
	return nil
}

func (s *LedgerService) AddGoal(ctx context.Context, name string, target float64, category string) (core.Goal, error) {
	g, err := s.store.AddGoal(ctx, name, target, category)
	if err != nil {
		return core.Goal{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityGoal, g.ID, amqp.OpCreated))
	return g, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityGoal, id, amqp.OpDeleted))
	return nil
}

func (s *LedgerService) AddFixedExpense(ctx context.Context, name string, amount float64, paymentMethod string) (core.FixedExpense, error) {
	fe, err := s.store.AddFixedExpense(ctx, name, amount, paymentMethod)
	if err != nil {
		return core.FixedExpense{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityFixedExpense, fe.ID, amqp.OpCreated))
	return fe, nil
}

func (s *LedgerService) DeleteFixedExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteFixedExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityFixedExpense, id, amqp.OpDeleted))
	return nil
}

// PayDebt applies a clamped payment and reports the generated transaction.
func (s *LedgerService) PayDebt(ctx context.Context, id int64, amount float64) (core.Transaction, error) {
	t, err := s.store.PayDebt(ctx, id, amount)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityDebt, id, amqp.OpPaid))
	return t, nil
}

// ContributeGoal applies a clamped contribution and reports the generated
// transaction.
func (s *LedgerService) ContributeGoal(ctx context.Context, id int64, amount float64) (core.Transaction, error) {
	t, err := s.store.ContributeGoal(ctx, id, amount)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityGoal, id, amqp.OpPaid))
	return t, nil
}

func (s *LedgerService) SetCurrency(ctx context.Context, code string) error {
	if err := s.store.SetCurrency(ctx, code); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityLedger, 0, amqp.OpUpdated))
	return nil
}

func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityLedger, 0, amqp.OpReset))
	return nil
}

func (s *LedgerService) Import(ctx context.Context, data []byte) error {
	if err := s.store.Import(ctx, data); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewLedgerEventMessage(amqp.EntityLedger, 0, amqp.OpImported))
	return nil
}

func (s *LedgerService) Export() ([]byte, error) {
	return s.store.Export()
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, msg); err != nil {
		// The mutation is already persisted; losing a notification only
		// delays the mirror until the next periodic sync.
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldError, err,
			applog.FieldEntity, msg.Entity,
			applog.FieldEntityID, msg.EntityID,
			applog.FieldOperation, msg.Op)
	}
}
