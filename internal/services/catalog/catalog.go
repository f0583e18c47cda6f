// Package catalog keeps the list of bookable services shown on the home page.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/models"
)

// API is the subset of the backend client the catalog needs
type API interface {
	Get(ctx context.Context, path string, out any) (*api.Response, error)
}

// Store holds the services
type Store struct {
	api    API
	logger *zap.Logger
	policy *bluemonday.Policy

	mu       sync.RWMutex
	services []models.Service
}

// New creates an empty catalog
func New(client API, logger *zap.Logger) (*Store, error) {
	if client == nil {
		return nil, errors.New("catalog: api is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    client,
		logger: logger.Named("catalog"),
		policy: bluemonday.UGCPolicy(),
	}, nil
}

// FetchServices replaces the list with the backend's. Descriptions arrive as
// HTML and are sanitised before they are kept.
func (s *Store) FetchServices(ctx context.Context) {
	var list []models.Service
	if _, err := s.api.Get(ctx, "/service-list", &list); err != nil {
		s.logger.Error("fetch services failed", zap.Error(err))
		return
	}

	for i := range list {
		list[i].Description = strings.TrimSpace(s.policy.Sanitize(list[i].Description))
	}

	s.mu.Lock()
	s.services = list
	s.mu.Unlock()
}

// Services returns a copy of the list
func (s *Store) Services() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Service, len(s.services))
	copy(out, s.services)
	return out
}
