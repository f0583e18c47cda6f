// Package cart keeps the signed-in user's cart line items.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/models"
	"github.com/gojetter/storefront/internal/services/session"
)

// API is the subset of the backend client the cart needs
type API interface {
	Get(ctx context.Context, path string, out any) (*api.Response, error)
	Post(ctx context.Context, path string, body, out any) (*api.Response, error)
}

// Session is what the cart needs from the session store
type Session interface {
	Logout(ctx context.Context)
	Expire(ctx context.Context)
	Subscribe(fn session.Listener)
}

// Deps bundles the Store's collaborators
type Deps struct {
	API     API
	Session Session
	Logger  *zap.Logger
}

// Store holds the cart
type Store struct {
	api     API
	session Session
	logger  *zap.Logger

	mu    sync.RWMutex
	items models.Cart
}

// New creates an empty cart store and subscribes it to session lifecycle events
func New(deps Deps) (*Store, error) {
	if deps.API == nil {
		return nil, errors.New("cart: api is required")
	}
	if deps.Session == nil {
		return nil, errors.New("cart: session is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Store{
		api:     deps.API,
		session: deps.Session,
		logger:  deps.Logger.Named("cart"),
	}
	deps.Session.Subscribe(s.onSession)
	return s, nil
}

func (s *Store) onSession(_ context.Context, ev session.Event) {
	switch ev {
	case session.EventLoggedOut, session.EventExpired:
		s.Reset()
	}
}

// FetchCart replaces the cart with the backend's copy. Failures are logged;
// an expired session is ended.
func (s *Store) FetchCart(ctx context.Context) {
	var items models.Cart
	if _, err := s.api.Get(ctx, "/cart-list", &items); err != nil {
		s.handleError(ctx, "fetch cart", err)
		return
	}
	if items == nil {
		items = models.Cart{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// DeleteCart removes one line item on the backend and then locally. The raw
// response is returned for UI feedback whenever the backend answered.
func (s *Store) DeleteCart(ctx context.Context, id int64) (*api.Response, error) {
	resp, err := s.api.Post(ctx, fmt.Sprintf("/delete-cart/%d", id), struct{}{}, nil)
	if err != nil {
		s.handleError(ctx, "delete cart item", err)
		return resp, fmt.Errorf("cart: delete %d: %w", id, err)
	}

	s.mu.Lock()
	s.items = s.items.Without(id)
	s.mu.Unlock()
	return resp, nil
}

func (s *Store) handleError(ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		s.logger.Info("session expired", zap.String("op", op))
		s.session.Expire(ctx)
	case errors.Is(err, api.ErrUnauthorized):
		s.logger.Info("unauthorized; logging out", zap.String("op", op))
		s.session.Logout(ctx)
	default:
		s.logger.Error(op+" failed", zap.Error(err))
	}
}

// Reset empties the cart
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy of the line items
func (s *Store) Items() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

// Count is the total quantity across all line items
func (s *Store) Count() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Count()
}

// Total is the sum of effective unit price times quantity
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Total()
}
