package services

import (
	"context"
	"errors"
	"testing"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/ledger"
	"carteira/internal/storage"
)

type capturePublisher struct {
	events []*amqp.LedgerEventMessage
	err    error
}

func (p *capturePublisher) PublishLedgerEvent(_ context.Context, msg *amqp.LedgerEventMessage) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, msg)
	return nil
}

func newTestService(pub EventPublisher) *LedgerService {
	store := ledger.New(core.NewState(), storage.NewMemoryStore())
	return NewLedgerService(store, pub)
}

func TestMutationsPublishEvents(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub)
	ctx := context.Background()

	tr, err := svc.AddTransaction(ctx, core.Income, "salário", 1000, "BRL", "Trabalho")
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	d, err := svc.AddDebt(ctx, "Itaú", 100)
	if err != nil {
		t.Fatalf("add debt: %v", err)
	}
	if _, err := svc.PayDebt(ctx, d.ID, 10); err != nil {
		t.Fatalf("pay debt: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, tr.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}

	want := []struct {
		entity string
		op     string
	}{
		{amqp.EntityTransaction, amqp.OpCreated},
		{amqp.EntityDebt, amqp.OpCreated},
		{amqp.EntityDebt, amqp.OpPaid},
		{amqp.EntityTransaction, amqp.OpDeleted},
	}
	if len(pub.events) != len(want) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(want))
	}
	for i, w := range want {
		if pub.events[i].Entity != w.entity || pub.events[i].Op != w.op {
			t.Fatalf("event %d = %s/%s, want %s/%s",
				i, pub.events[i].Entity, pub.events[i].Op, w.entity, w.op)
		}
	}
}

func TestRejectedMutationPublishesNothing(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(pub)

	if _, err := svc.AddTransaction(context.Background(), core.Expense, "", 10, "BRL", "c"); err == nil {
		t.Fatal("expected validation error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("rejected mutation published %d events", len(pub.events))
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	svc := newTestService(pub)

	if _, err := svc.AddDebt(context.Background(), "Itaú", 100); err != nil {
		t.Fatalf("mutation failed on publish error: %v", err)
	}
	if len(svc.Snapshot().Debts) != 1 {
		t.Fatal("debt not stored")
	}
}

func TestNilPublisherIsAllowed(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.AddGoal(context.Background(), "Tênis", 267, "Glow Up"); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if err := svc.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
