package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"carteira/internal/core"
)

// fakeSnapshots records saves and can be told to fail.
type fakeSnapshots struct {
	saved   *core.LedgerState
	saves   int
	saveErr error
}

func (f *fakeSnapshots) Save(_ context.Context, state *core.LedgerState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = state.Clone()
	f.saves++
	return nil
}

func (f *fakeSnapshots) Load(_ context.Context) (*core.LedgerState, error) {
	if f.saved == nil {
		return nil, ErrNoSnapshot
	}
	return f.saved.Clone(), nil
}

func newTestStore() (*Store, *fakeSnapshots) {
	snaps := &fakeSnapshots{}
	s := New(core.NewState(), snaps)
	s.now = func() time.Time { return time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC) }
	return s, snaps
}

func TestOpenSeedsOnFirstRun(t *testing.T) {
	snaps := &fakeSnapshots{}
	s, err := Open(context.Background(), snaps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	state := s.Snapshot()
	if len(state.Debts) != 2 || len(state.FixedExpenses) != 6 || len(state.Goals) != 2 {
		t.Fatalf("seed counts: debts=%d fixed=%d goals=%d",
			len(state.Debts), len(state.FixedExpenses), len(state.Goals))
	}
	if snaps.saves != 1 {
		t.Fatalf("seed should persist once, saved %d times", snaps.saves)
	}
}

func TestOpenLoadsExistingState(t *testing.T) {
	snaps := &fakeSnapshots{}
	existing := core.NewState()
	existing.Settings.Currency = "USD"
	if err := snaps.Save(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	s, err := Open(context.Background(), snaps)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Currency() != "USD" {
		t.Fatalf("currency = %q, want USD", s.Currency())
	}
}

func TestAddTransactionConvertsToBase(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	// 5.25 is the USD rate, so 105 USD is 20 BRL.
	tr, err := s.AddTransaction(ctx, core.Income, "freela", 105, "USD", "Trabalho")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if math.Abs(tr.Amount-20) > 1e-9 {
		t.Fatalf("amount = %v, want 20", tr.Amount)
	}
	if snaps.saves != 1 {
		t.Fatalf("saves = %d, want 1", snaps.saves)
	}
}

func TestAddTransactionValidationIsNoOp(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	cases := []struct {
		desc     string
		amount   float64
		currency string
	}{
		{"", 10, "BRL"},
		{"  ", 10, "BRL"},
		{"ok", 0, "BRL"},
		{"ok", -5, "BRL"},
		{"ok", 10, "EUR"},
	}
	for i, tc := range cases {
		if _, err := s.AddTransaction(ctx, core.Expense, tc.desc, tc.amount, tc.currency, "c"); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if len(s.Snapshot().Transactions) != 0 {
		t.Fatal("rejected transactions must not be stored")
	}
	if snaps.saves != 0 {
		t.Fatal("rejected transactions must not persist")
	}
}

func TestDeleteTransactionUnknownIDIsNoOp(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	if _, err := s.AddTransaction(ctx, core.Expense, "x", 10, "BRL", "c"); err != nil {
		t.Fatal(err)
	}
	before := snaps.saves

	if err := s.DeleteTransaction(ctx, 424242); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
	if len(s.Snapshot().Transactions) != 1 {
		t.Fatal("unknown-id delete changed the collection")
	}
	if snaps.saves != before {
		t.Fatal("unknown-id delete should not persist")
	}
}

func TestPayDebtClampsToRemaining(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	d, err := s.AddDebt(ctx, "Mercado Pago", 129.05)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := s.PayDebt(ctx, d.ID, 500)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if math.Abs(tr.Amount-129.05) > 1e-9 {
		t.Fatalf("payment transaction = %v, want 129.05", tr.Amount)
	}
	if tr.Type != core.Expense || tr.Category != core.PaymentCategory {
		t.Fatalf("payment transaction = %+v", tr)
	}

	state := s.Snapshot()
	if state.Debts[0].Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", state.Debts[0].Remaining)
	}
}

func TestPayDebtInvariants(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	d, err := s.AddDebt(ctx, "Itaú", 100)
	if err != nil {
		t.Fatal(err)
	}

	prev := 100.0
	for _, amount := range []float64{10, 25.5, 3, 80, 50} {
		if _, err := s.PayDebt(ctx, d.ID, amount); err != nil {
			t.Fatalf("pay %v: %v", amount, err)
		}
		got := s.Snapshot().Debts[0]
		if got.Remaining < 0 || got.Remaining > got.Total {
			t.Fatalf("remaining %v out of [0, %v]", got.Remaining, got.Total)
		}
		if got.Remaining > prev {
			t.Fatalf("remaining increased: %v -> %v", prev, got.Remaining)
		}
		prev = got.Remaining
	}
}

func TestPayDebtUnknownIDLeavesStateUnchanged(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	if _, err := s.AddDebt(ctx, "Itaú", 100); err != nil {
		t.Fatal(err)
	}
	before := snaps.saves

	_, err := s.PayDebt(ctx, 999, 10)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(s.Snapshot().Transactions) != 0 {
		t.Fatal("failed payment must not append a transaction")
	}
	if snaps.saves != before {
		t.Fatal("failed payment must not persist")
	}
}

func TestPayDebtInvalidAmountLeavesStateUnchanged(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	d, err := s.AddDebt(ctx, "Itaú", 100)
	if err != nil {
		t.Fatal(err)
	}

	for _, amount := range []float64{0, -10, math.NaN()} {
		if _, err := s.PayDebt(ctx, d.ID, amount); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("pay %v: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if got := s.Snapshot().Debts[0].Remaining; got != 100 {
		t.Fatalf("remaining = %v, want 100", got)
	}
}

func TestPayDebtUsesDisplayCurrency(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	d, err := s.AddDebt(ctx, "Itaú", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrency(ctx, "USD"); err != nil {
		t.Fatal(err)
	}

	// 52.50 USD at rate 5.25 is 10 BRL.
	tr, err := s.PayDebt(ctx, d.ID, 52.50)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(tr.Amount-10) > 1e-9 {
		t.Fatalf("payment = %v BRL, want 10", tr.Amount)
	}
	if got := s.Snapshot().Debts[0].Remaining; math.Abs(got-90) > 1e-9 {
		t.Fatalf("remaining = %v, want 90", got)
	}
}

func TestContributeGoalClampsToTarget(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	g, err := s.AddGoal(ctx, "Paleta do Bruxo", 197, "Equipamento")
	if err != nil {
		t.Fatal(err)
	}

	prev := 0.0
	for _, amount := range []float64{100, 100, 50} {
		if _, err := s.ContributeGoal(ctx, g.ID, amount); err != nil {
			t.Fatalf("contribute %v: %v", amount, err)
		}
		got := s.Snapshot().Goals[0]
		if got.Saved < 0 || got.Saved > got.Target {
			t.Fatalf("saved %v out of [0, %v]", got.Saved, got.Target)
		}
		if got.Saved < prev {
			t.Fatalf("saved decreased: %v -> %v", prev, got.Saved)
		}
		prev = got.Saved
	}
	if got := s.Snapshot().Goals[0].Saved; got != 197 {
		t.Fatalf("saved = %v, want 197", got)
	}
}

func TestResetPreservesSettings(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.AddDebt(ctx, "Itaú", 100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTransaction(ctx, core.Income, "x", 10, "BRL", "c"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrency(ctx, "PEN"); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	state := s.Snapshot()
	if len(state.Transactions) != 0 || len(state.Debts) != 0 ||
		len(state.Goals) != 0 || len(state.FixedExpenses) != 0 {
		t.Fatalf("reset left data behind: %+v", state)
	}
	if state.Settings.Currency != "PEN" {
		t.Fatalf("currency = %q, want PEN", state.Settings.Currency)
	}
}

func TestImportRejectsIncompleteDocument(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	if _, err := s.AddDebt(ctx, "Itaú", 100); err != nil {
		t.Fatal(err)
	}
	before := snaps.saves

	err := s.Import(ctx, []byte(`{"transactions":[],"debts":[],"fixedExpenses":[],"settings":{"currency":"BRL"}}`))
	if !errors.Is(err, core.ErrInvalidSnapshot) {
		t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
	}
	if len(s.Snapshot().Debts) != 1 {
		t.Fatal("failed import changed the state")
	}
	if snaps.saves != before {
		t.Fatal("failed import must not persist")
	}
}

func TestImportReplacesState(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.AddDebt(ctx, "Itaú", 100); err != nil {
		t.Fatal(err)
	}

	doc := []byte(`{
		"transactions": [{"id":7,"type":"income","description":"a","amount":10,"category":"c","date":"2024-05-03T00:00:00Z"}],
		"debts": [],
		"goals": [],
		"fixedExpenses": [],
		"settings": {"currency":"USD"}
	}`)
	if err := s.Import(ctx, doc); err != nil {
		t.Fatalf("import: %v", err)
	}

	state := s.Snapshot()
	if len(state.Debts) != 0 || len(state.Transactions) != 1 {
		t.Fatalf("imported state = %+v", state)
	}
	if s.Currency() != "USD" {
		t.Fatalf("currency = %q, want USD", s.Currency())
	}
}

func TestPersistenceFailurePropagates(t *testing.T) {
	snaps := &fakeSnapshots{saveErr: errors.New("disk full")}
	s := New(core.NewState(), snaps)

	if _, err := s.AddDebt(context.Background(), "Itaú", 100); err == nil {
		t.Fatal("expected persistence error to propagate")
	}
}

func TestPayDebtPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	d, err := s.AddDebt(ctx, "Cartão", 100)
	if err != nil {
		t.Fatal(err)
	}

	snaps.saveErr = errors.New("disk full")
	if _, err := s.PayDebt(ctx, d.ID, 60); err == nil {
		t.Fatal("expected persistence error to propagate")
	}

	state := s.Snapshot()
	if state.Debts[0].Remaining != 100 {
		t.Fatalf("remaining = %v after failed payment, want 100", state.Debts[0].Remaining)
	}
	if len(state.Transactions) != 0 {
		t.Fatalf("failed payment recorded %d transaction(s)", len(state.Transactions))
	}

	// A retry after the store recovers must apply the payment exactly once.
	snaps.saveErr = nil
	if _, err := s.PayDebt(ctx, d.ID, 60); err != nil {
		t.Fatal(err)
	}
	state = s.Snapshot()
	if state.Debts[0].Remaining != 40 || len(state.Transactions) != 1 {
		t.Fatalf("after retry: remaining=%v transactions=%d, want 40/1",
			state.Debts[0].Remaining, len(state.Transactions))
	}
}

func TestDeleteTransactionPersistenceFailureIsRetryable(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	tr, err := s.AddTransaction(ctx, core.Expense, "Mercado", 50, "BRL", "Alimentação")
	if err != nil {
		t.Fatal(err)
	}

	snaps.saveErr = errors.New("disk full")
	if err := s.DeleteTransaction(ctx, tr.ID); err == nil {
		t.Fatal("expected persistence error to propagate")
	}
	if len(s.Snapshot().Transactions) != 1 {
		t.Fatal("failed delete removed the transaction from memory")
	}

	snaps.saveErr = nil
	if err := s.DeleteTransaction(ctx, tr.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Snapshot().Transactions) != 0 {
		t.Fatal("retried delete did not remove the transaction")
	}
	if len(snaps.saved.Transactions) != 0 {
		t.Fatalf("durable store still holds %d transaction(s) after successful retry",
			len(snaps.saved.Transactions))
	}
}

func TestContributeGoalPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	s, snaps := newTestStore()
	ctx := context.Background()

	g, err := s.AddGoal(ctx, "Tênis", 200, "Glow Up")
	if err != nil {
		t.Fatal(err)
	}

	snaps.saveErr = errors.New("disk full")
	if _, err := s.ContributeGoal(ctx, g.ID, 80); err == nil {
		t.Fatal("expected persistence error to propagate")
	}

	state := s.Snapshot()
	if state.Goals[0].Saved != 0 || len(state.Transactions) != 0 {
		t.Fatalf("failed contribution mutated state: saved=%v transactions=%d",
			state.Goals[0].Saved, len(state.Transactions))
	}
}

func TestSetCurrencyRejectsUnknownCode(t *testing.T) {
	s, _ := newTestStore()
	if err := s.SetCurrency(context.Background(), "EUR"); !errors.Is(err, core.ErrUnknownCurrency) {
		t.Fatalf("err = %v, want ErrUnknownCurrency", err)
	}
	if s.Currency() != core.BaseCurrency {
		t.Fatalf("currency changed to %q", s.Currency())
	}
}

func TestIDsAreStrictlyIncreasing(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		tr, err := s.AddTransaction(ctx, core.Expense, "x", 10, "BRL", "c")
		if err != nil {
			t.Fatal(err)
		}
		if tr.ID <= prev {
			t.Fatalf("id %d not greater than %d", tr.ID, prev)
		}
		prev = tr.ID
	}
}

func TestExportMatchesState(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.AddGoal(ctx, "Tênis", 267, "Glow Up"); err != nil {
		t.Fatal(err)
	}

	data, err := s.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := core.ParseSnapshot(data)
	if err != nil {
		t.Fatalf("exported document should re-import: %v", err)
	}
	if len(got.Goals) != 1 || got.Goals[0].Name != "Tênis" {
		t.Fatalf("exported goals = %+v", got.Goals)
	}
}
