package models

import (
	"github.com/shopspring/decimal"
)

// Currency is a display currency offered by the backend
type Currency struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Symbol    string     `json:"symbol"`
	Rate      FlexString `json:"rate"`
	IsDefault Flag       `json:"is_default"`
}

// ParsedRate returns the conversion rate from the base currency. An
// unparseable rate yields zero.
func (c Currency) ParsedRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.Rate.String())
	if err != nil {
		return decimal.Zero
	}
	return rate
}
