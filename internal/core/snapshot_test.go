package core

import (
	"errors"
	"testing"
)

func TestParseSnapshotRejectsMissingCollections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing goals", `{"transactions":[],"debts":[],"fixedExpenses":[],"settings":{"currency":"BRL"}}`},
		{"missing settings", `{"transactions":[],"debts":[],"goals":[],"fixedExpenses":[]}`},
		{"missing transactions", `{"debts":[],"goals":[],"fixedExpenses":[],"settings":{"currency":"BRL"}}`},
		{"empty object", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tc.doc))
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestParseSnapshotRejectsMalformedJSON(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"transactions": [`))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrInvalidSnapshot) {
		t.Fatal("malformed JSON should not be reported as a structural failure")
	}
}

func TestParseSnapshotAcceptsCompleteDocument(t *testing.T) {
	doc := `{
		"transactions": [{"id":1,"type":"income","description":"a","amount":10,"category":"c","date":"2024-05-03T00:00:00Z"}],
		"debts": [],
		"goals": [],
		"fixedExpenses": [],
		"settings": {"currency":"USD"}
	}`
	s, err := ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(s.Transactions) != 1 || s.Settings.Currency != "USD" {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestEncodeDecodeStateRoundTrip(t *testing.T) {
	s := sampleState()
	s.Settings.Currency = "PEN"

	data, err := EncodeState(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Transactions) != len(s.Transactions) || got.Settings.Currency != "PEN" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDecodeStateBackfillsSettings(t *testing.T) {
	got, err := DecodeState([]byte(`{"transactions":[],"debts":[],"goals":[],"fixedExpenses":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Settings.Currency != BaseCurrency {
		t.Fatalf("currency = %q, want %q", got.Settings.Currency, BaseCurrency)
	}
}
