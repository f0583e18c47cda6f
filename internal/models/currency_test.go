package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency_DecodeMixedTypes(t *testing.T) {
	payload := `[
		{"id": 1, "code": "USD", "symbol": "$", "rate": "1", "is_default": 0},
		{"id": 2, "code": "EUR", "symbol": "€", "rate": 0.92, "is_default": 1},
		{"id": 3, "code": "GBP", "symbol": "£", "rate": null, "is_default": "0"}
	]`

	var list []Currency
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if bool(list[0].IsDefault) {
		t.Error("Expected USD not to be default")
	}
	if !bool(list[1].IsDefault) {
		t.Error("Expected EUR to be default")
	}
	if !list[1].ParsedRate().Equal(decimal.NewFromFloat(0.92)) {
		t.Errorf("Expected rate 0.92, got %s", list[1].ParsedRate())
	}
	if !list[2].ParsedRate().IsZero() {
		t.Errorf("Expected zero rate for null, got %s", list[2].ParsedRate())
	}
}

func TestFlag_Values(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`1`, true},
		{`"1"`, true},
		{`true`, true},
		{`0`, false},
		{`false`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if bool(f) != tt.expected {
				t.Errorf("Flag(%s) = %v, want %v", tt.input, f, tt.expected)
			}
		})
	}
}
