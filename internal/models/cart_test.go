package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartItem_UnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		item     CartItem
		expected decimal.Decimal
	}{
		{
			name: "discount wins when positive",
			item: CartItem{ActivityDate: &ActivityDate{
				Price:         decimal.NewFromInt(120),
				DiscountPrice: decimal.NewFromInt(90),
			}},
			expected: decimal.NewFromInt(90),
		},
		{
			name: "zero discount falls back to price",
			item: CartItem{ActivityDate: &ActivityDate{
				Price:         decimal.NewFromInt(120),
				DiscountPrice: decimal.Zero,
			}},
			expected: decimal.NewFromInt(120),
		},
		{
			name: "negative discount falls back to price",
			item: CartItem{ActivityDate: &ActivityDate{
				Price:         decimal.NewFromFloat(75.5),
				DiscountPrice: decimal.NewFromInt(-5),
			}},
			expected: decimal.NewFromFloat(75.5),
		},
		{
			name:     "no price at all",
			item:     CartItem{ActivityDate: &ActivityDate{}},
			expected: decimal.Zero,
		},
		{
			name:     "missing activity date",
			item:     CartItem{},
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.UnitPrice()
			if !got.Equal(tt.expected) {
				t.Errorf("Expected unit price %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCart_CountAndTotal(t *testing.T) {
	cart := Cart{
		{ID: 1, Quantity: 2, ActivityDate: &ActivityDate{Price: decimal.NewFromInt(100), DiscountPrice: decimal.NewFromInt(80)}},
		{ID: 2, Quantity: 3, ActivityDate: &ActivityDate{Price: decimal.NewFromInt(50)}},
		{ID: 3, Quantity: 1},
	}

	if cart.Count() != 6 {
		t.Errorf("Expected count 6, got %d", cart.Count())
	}

	expected := decimal.NewFromInt(310)
	if !cart.Total().Equal(expected) {
		t.Errorf("Expected total %s, got %s", expected, cart.Total())
	}
}

func TestCart_Empty(t *testing.T) {
	var cart Cart

	if cart.Count() != 0 {
		t.Errorf("Expected count 0, got %d", cart.Count())
	}
	if !cart.Total().IsZero() {
		t.Errorf("Expected zero total, got %s", cart.Total())
	}
}

func TestCart_NegativeQuantityIgnored(t *testing.T) {
	cart := Cart{
		{ID: 1, Quantity: -4, ActivityDate: &ActivityDate{Price: decimal.NewFromInt(10)}},
		{ID: 2, Quantity: 1, ActivityDate: &ActivityDate{Price: decimal.NewFromInt(10)}},
	}

	if cart.Count() != 1 {
		t.Errorf("Expected count 1, got %d", cart.Count())
	}
	if !cart.Total().Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected total 10, got %s", cart.Total())
	}
}

func TestCart_Without(t *testing.T) {
	cart := Cart{{ID: 1}, {ID: 2}, {ID: 3}}

	out := cart.Without(2)

	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Errorf("Expected lines 1 and 3, got %+v", out)
	}
	if len(cart) != 3 {
		t.Error("Expected original cart to be untouched")
	}
}

func TestCartItem_DecodeBackendPayload(t *testing.T) {
	payload := `[
		{"id": 7, "quantity": 2, "activity_date": {"id": 3, "price": "150.00", "discount_price": null}},
		{"id": 8, "quantity": 1, "activity_date": {"id": 4, "price": 99, "discount_price": "79.5"}}
	]`

	var cart Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(cart) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(cart))
	}
	if !cart[0].UnitPrice().Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected 150, got %s", cart[0].UnitPrice())
	}
	if !cart[1].UnitPrice().Equal(decimal.NewFromFloat(79.5)) {
		t.Errorf("Expected 79.5, got %s", cart[1].UnitPrice())
	}
	if !cart.Total().Equal(decimal.NewFromFloat(379.5)) {
		t.Errorf("Expected total 379.5, got %s", cart.Total())
	}
}

func TestCartItem_DecodeLooselyTypedPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		count    int64
		expected decimal.Decimal
	}{
		{
			name:     "empty discount falls back to price",
			payload:  `[{"id": 1, "quantity": 2, "activity_date": {"price": "50", "discount_price": ""}}]`,
			count:    2,
			expected: decimal.NewFromInt(100),
		},
		{
			name:     "quoted id and quantity",
			payload:  `[{"id": "1", "quantity": "2", "activity_date": {"id": "9", "price": 50}}]`,
			count:    2,
			expected: decimal.NewFromInt(100),
		},
		{
			name:     "unparseable price counts as zero",
			payload:  `[{"id": 1, "quantity": 2, "activity_date": {"price": "n/a", "discount_price": "abc"}}]`,
			count:    2,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			if err := json.Unmarshal([]byte(tt.payload), &cart); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(cart) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(cart))
			}
			if cart[0].ID != 1 {
				t.Errorf("Expected id 1, got %d", cart[0].ID)
			}
			if cart.Count() != tt.count {
				t.Errorf("Expected count %d, got %d", tt.count, cart.Count())
			}
			if !cart.Total().Equal(tt.expected) {
				t.Errorf("Expected total %s, got %s", tt.expected, cart.Total())
			}
		})
	}
}
