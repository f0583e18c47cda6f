package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ActivityDate is the priced entity a cart line refers to: one bookable date
// of a tour or activity.
type ActivityDate struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
}

// CartItem is a single line of the shopping cart
type CartItem struct {
	ID           int64         `json:"id"`
	Quantity     int64         `json:"quantity"`
	ActivityDate *ActivityDate `json:"activity_date"`
}

type activityDatePayload struct {
	ID            FlexString `json:"id"`
	Date          string     `json:"date"`
	Price         FlexString `json:"price"`
	DiscountPrice FlexString `json:"discount_price"`
}

// UnmarshalJSON accepts numbers or strings for the id and prices. Empty or
// unparseable prices decode as zero.
func (a *ActivityDate) UnmarshalJSON(data []byte) error {
	var p activityDatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = ActivityDate{
		ID:            p.ID.Int64(),
		Date:          p.Date,
		Price:         p.Price.Decimal(),
		DiscountPrice: p.DiscountPrice.Decimal(),
	}
	return nil
}

type cartItemPayload struct {
	ID           FlexString    `json:"id"`
	Quantity     FlexString    `json:"quantity"`
	ActivityDate *ActivityDate `json:"activity_date"`
}

// UnmarshalJSON accepts numbers or strings for the id and quantity
func (i *CartItem) UnmarshalJSON(data []byte) error {
	var p cartItemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = CartItem{
		ID:           p.ID.Int64(),
		Quantity:     p.Quantity.Int64(),
		ActivityDate: p.ActivityDate,
	}
	return nil
}

// UnitPrice returns the effective price of one unit: the discount price when it
// is positive, otherwise the regular price, otherwise zero.
func (i CartItem) UnitPrice() decimal.Decimal {
	if i.ActivityDate == nil {
		return decimal.Zero
	}
	if i.ActivityDate.DiscountPrice.IsPositive() {
		return i.ActivityDate.DiscountPrice
	}
	return i.ActivityDate.Price
}

// Units returns the quantity, never negative
func (i CartItem) Units() int64 {
	if i.Quantity < 0 {
		return 0
	}
	return i.Quantity
}

// LineTotal returns UnitPrice multiplied by the quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(i.Units()))
}

// Cart is the ordered list of cart lines, unique by ID
type Cart []CartItem

// Count returns the total number of units in the cart
func (c Cart) Count() int64 {
	var n int64
	for _, item := range c {
		n += item.Units()
	}
	return n
}

// Total returns the sum of all line totals
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Without returns a copy of the cart with the line identified by id removed
func (c Cart) Without(id int64) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Clone returns a copy that shares no backing array with c
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
