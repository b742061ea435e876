package http

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestBodyParserJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/transactions",
		strings.NewReader(`{"description":"Mercado","amount":"12,34","id":42}`))
	req.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !p.IsJSON() {
		t.Error("IsJSON() = false, want true")
	}
	if got := p.Get("description"); got != "Mercado" {
		t.Errorf("Get(description) = %q", got)
	}
	if got := p.Get("amount"); got != "12,34" {
		t.Errorf("Get(amount) = %q", got)
	}
	id, ok := p.GetID()
	if !ok || id != 42 {
		t.Errorf("GetID() = %d, %v; want 42, true", id, ok)
	}
}

func TestRequestBodyParserForm(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/debts",
		strings.NewReader("name=Cart%C3%A3o&total=100"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.IsJSON() {
		t.Error("IsJSON() = true, want false")
	}
	if got := p.Get("name"); got != "Cartão" {
		t.Errorf("Get(name) = %q", got)
	}
}

func TestRequestBodyParserMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(`{"broken`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("Parse() error = nil, want unmarshal failure")
	}
}

func TestGetIDRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing", `{}`},
		{"non numeric", `{"id":"abc"}`},
		{"zero", `{"id":0}`},
		{"negative", `{"id":-3}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/x", strings.NewReader(tc.body))
			p := NewRequestBodyParser(req)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, ok := p.GetID(); ok {
				t.Error("GetID() ok = true, want false")
			}
		})
	}
}

func TestSanitizeInputStripsControlCharacters(t *testing.T) {
	if got := sanitizeInput("  caf\x00é\x07  "); got != "café" {
		t.Errorf("sanitizeInput = %q, want %q", got, "café")
	}
}
