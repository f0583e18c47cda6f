package handlers

import (
	"net/http"

	"github.com/gojetter/storefront/internal/models"
	"github.com/gojetter/storefront/internal/router"
	"github.com/gojetter/storefront/internal/services/currency"
)

type pageView struct {
	Page      router.Route       `json:"page"`
	User      *models.Profile    `json:"user"`
	Currency  currency.Selection `json:"currency"`
	CartCount int64              `json:"cartCount"`
}

func (h *Handler) pageView(path string) pageView {
	route, ok := h.table.Lookup(path)
	if !ok {
		route = router.Route{Path: path}
	}
	return pageView{
		Page:      route,
		User:      h.session.User(),
		Currency:  h.currency.Selected(),
		CartCount: h.cart.Count(),
	}
}

// Page serves any page of the route table
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.history.Visit(r.URL.Path)
	h.writeJSON(w, http.StatusOK, h.pageView(r.URL.Path))
}

// Booking serves the signed-in landing page
func (h *Handler) Booking(w http.ResponseWriter, r *http.Request) {
	h.history.Visit(router.BookingRoute)
	h.writeJSON(w, http.StatusOK, h.pageView(router.BookingRoute))
}

// Services lists the catalogue
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"services": h.catalog.Services()})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
