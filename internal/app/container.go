// Package app wires the stores, the backend client and local storage into a
// single container built once at start-up.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/config"
	"github.com/gojetter/storefront/internal/router"
	"github.com/gojetter/storefront/internal/services/cart"
	"github.com/gojetter/storefront/internal/services/catalog"
	"github.com/gojetter/storefront/internal/services/currency"
	"github.com/gojetter/storefront/internal/services/session"
	"github.com/gojetter/storefront/internal/storage"
)

// Storage is the durable local storage backing the session
type Storage interface {
	session.Storage
	Keys(ctx context.Context) ([]string, error)
}

// Options overrides parts of the wiring, mostly for tests
type Options struct {
	Storage    Storage
	HTTPClient api.HTTPClient
}

// Container holds everything a running client needs
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	API     *api.Client
	Storage Storage
	Table   *router.Table
	History *router.History
	Guard   *router.Guard

	Session  *session.Store
	Cart     *cart.Store
	Currency *currency.Store
	Catalog  *catalog.Store

	db *storage.DB
}

// New constructs the runtime dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{Config: cfg, Logger: logger, History: router.NewHistory()}

	if err := c.openStorage(cfg, opts.Storage); err != nil {
		return nil, err
	}

	table, err := router.DefaultTable()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("app: route table: %w", err)
	}
	c.Table = table

	// The client reads the token through the session store, which does not
	// exist yet; the closure resolves it per request.
	clientOpts := []api.Option{api.WithLogger(logger)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	c.API, err = api.NewClient(cfg.APIBaseURL, api.TokenFunc(func() string { return c.Session.Token() }), clientOpts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("app: api client: %w", err)
	}

	c.Session, err = session.New(ctx, session.Deps{
		API:       c.API,
		Storage:   c.Storage,
		Navigator: c.History,
		Logger:    logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Cart, err = cart.New(cart.Deps{API: c.API, Session: c.Session, Logger: logger})
	if err != nil {
		c.Close()
		return nil, err
	}
	if c.Currency, err = currency.New(c.API, logger); err != nil {
		c.Close()
		return nil, err
	}
	if c.Catalog, err = catalog.New(c.API, logger); err != nil {
		c.Close()
		return nil, err
	}

	c.Guard = router.NewGuard(c.Table, c.Session)
	return c, nil
}

func (c *Container) openStorage(cfg *config.Config, override Storage) error {
	switch {
	case override != nil:
		c.Storage = override
		return nil
	case cfg.InMemoryStorage():
		c.Storage = storage.NewMemory()
		return nil
	}

	sealer, err := storage.NewSealer(cfg.StorageKey)
	if err != nil {
		return fmt.Errorf("app: storage key: %w", err)
	}
	db, err := storage.New(cfg.StoragePath)
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return err
	}
	c.db = db
	c.Storage = storage.NewLocalStorage(db, sealer)
	return nil
}

// Bootstrap performs the start-up fetches: the profile, currencies and
// services, and the cart when a user is signed in.
func (c *Container) Bootstrap(ctx context.Context) {
	if err := c.Session.FetchUser(ctx); err != nil {
		c.Logger.Warn("stored session rejected", zap.Error(err))
	}
	// The start-up refresh may push a navigation nobody asked for.
	c.History.Take()

	c.Currency.FetchCurrencies(ctx)
	c.Catalog.FetchServices(ctx)
	if c.Session.Authenticated() {
		c.Cart.FetchCart(ctx)
		c.History.Take()
	}
}

// Close releases the storage database
func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
