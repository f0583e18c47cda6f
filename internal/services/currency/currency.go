// Package currency keeps the list of display currencies and the selected one,
// and formats amounts for display.
package currency

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/models"
)

const defaultSymbol = "$"

// API is the subset of the backend client the currency store needs
type API interface {
	Get(ctx context.Context, path string, out any) (*api.Response, error)
}

// Selection is the currency amounts are displayed in
type Selection struct {
	ID     int64           `json:"id,omitempty"`
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// Fallback is used until the backend names a default
func Fallback() Selection {
	return Selection{Code: "USD", Symbol: defaultSymbol, Rate: decimal.NewFromInt(1)}
}

// Store holds the currencies
type Store struct {
	api    API
	logger *zap.Logger

	mu         sync.RWMutex
	currencies []models.Currency
	selected   Selection
}

// New creates a currency store starting from the fallback selection
func New(client API, logger *zap.Logger) (*Store, error) {
	if client == nil {
		return nil, errors.New("currency: api is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:      client,
		logger:   logger.Named("currency"),
		selected: Fallback(),
	}, nil
}

// FetchCurrencies loads the currency list and selects the backend default when
// one is flagged. Failures are logged and leave the store unchanged.
func (s *Store) FetchCurrencies(ctx context.Context) {
	var list []models.Currency
	if _, err := s.api.Get(ctx, "/currency-list", &list); err != nil {
		s.logger.Error("fetch currencies failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.currencies = list
	s.mu.Unlock()

	for _, c := range list {
		if c.IsDefault {
			s.ChangeCurrency(c)
			break
		}
	}
}

// ChangeCurrency selects c
func (s *Store) ChangeCurrency(c models.Currency) {
	sel := Selection{
		ID:     c.ID,
		Code:   c.Code,
		Symbol: c.Symbol,
		Rate:   c.ParsedRate(),
	}

	s.mu.Lock()
	s.selected = sel
	s.mu.Unlock()

	s.logger.Debug("currency selected", zap.String("code", sel.Code), zap.String("rate", sel.Rate.String()))
}

// Lookup finds a loaded currency by id or code
func (s *Store) Lookup(idOrCode string) (models.Currency, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.currencies {
		if c.Code == idOrCode || fmt.Sprint(c.ID) == idOrCode {
			return c, true
		}
	}
	return models.Currency{}, false
}

// Currencies returns a copy of the loaded list
func (s *Store) Currencies() []models.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Currency, len(s.currencies))
	copy(out, s.currencies)
	return out
}

// Selected returns the current selection
func (s *Store) Selected() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Format renders amount in the selected currency, rounded to whole units.
// A zero amount renders as the empty string.
func (s *Store) Format(amount decimal.Decimal) string {
	return s.Selected().Format(amount)
}

// FormatNull is Format for an amount that may be absent
func (s *Store) FormatNull(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return s.Format(amount.Decimal)
}

// Format renders amount with this selection's symbol and rate
func (sel Selection) Format(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	symbol := sel.Symbol
	if symbol == "" {
		symbol = defaultSymbol
	}
	rate := sel.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return fmt.Sprintf("%s %s", symbol, amount.Mul(rate).StringFixed(0))
}
