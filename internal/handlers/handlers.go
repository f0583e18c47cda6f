// Package handlers serves the local web front: JSON views of the stores and
// the actions that drive them.
package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/config"
	"github.com/gojetter/storefront/internal/middleware"
	"github.com/gojetter/storefront/internal/router"
	"github.com/gojetter/storefront/internal/services/cart"
	"github.com/gojetter/storefront/internal/services/catalog"
	"github.com/gojetter/storefront/internal/services/currency"
	"github.com/gojetter/storefront/internal/services/session"
)

// Deps are the stores and routing pieces the handlers work on
type Deps struct {
	Table    *router.Table
	History  *router.History
	Guard    *router.Guard
	Session  *session.Store
	Cart     *cart.Store
	Currency *currency.Store
	Catalog  *catalog.Store
}

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg    *config.Config
	logger *zap.Logger

	table    *router.Table
	history  *router.History
	guard    *router.Guard
	session  *session.Store
	cart     *cart.Store
	currency *currency.Store
	catalog  *catalog.Store
}

// New creates a new handler with all dependencies
func New(cfg *config.Config, logger *zap.Logger, deps Deps) (*Handler, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("handlers: config is required")
	case deps.Table == nil, deps.History == nil, deps.Guard == nil:
		return nil, errors.New("handlers: routing dependencies are required")
	case deps.Session == nil, deps.Cart == nil, deps.Currency == nil, deps.Catalog == nil:
		return nil, errors.New("handlers: stores are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		cfg:      cfg,
		logger:   logger.Named("http"),
		table:    deps.Table,
		history:  deps.History,
		guard:    deps.Guard,
		session:  deps.Session,
		cart:     deps.Cart,
		currency: deps.Currency,
		catalog:  deps.Catalog,
	}, nil
}

// Router builds the HTTP routes of the web front
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(h.logger))
	if h.cfg.LogRequests {
		r.Use(middleware.Logger(h.logger))
	}
	r.Use(middleware.SecurityHeaders)

	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Middleware)

		for _, route := range h.table.Routes() {
			switch route.Path {
			case router.BookingRoute, router.CartRoute:
				continue
			}
			r.Get(route.Path, h.Page)
		}

		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Get(router.BookingRoute, h.Booking)
		r.Get(router.CartRoute, h.Cart)
		r.Post(router.CartRoute+"/{id}/delete", h.DeleteCartItem)

		r.Get("/currency", h.Currencies)
		r.Post("/currency", h.ChangeCurrency)
		r.Get("/services", h.Services)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.jsonError(w, "Page not found", http.StatusNotFound)
	})

	return r
}

// followNavigation turns a navigation pushed by a store into a redirect.
// It reports whether a redirect was written.
func (h *Handler) followNavigation(w http.ResponseWriter, r *http.Request) bool {
	target, ok := h.history.Take()
	if !ok {
		return false
	}
	h.redirect(w, r, target)
	return true
}

// redirect performs an HTTP redirect
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeForm reads the named fields from either a JSON body or a form post
func decodeForm(r *http.Request, fields ...string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	if isJSON(r) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		for _, f := range fields {
			if v, ok := body[f]; ok && v != nil {
				switch t := v.(type) {
				case string:
					out[f] = t
				default:
					raw, _ := json.Marshal(t)
					out[f] = string(raw)
				}
			}
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for _, f := range fields {
		out[f] = r.FormValue(f)
	}
	return out, nil
}
