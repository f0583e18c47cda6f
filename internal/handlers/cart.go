package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/models"
	"github.com/gojetter/storefront/internal/router"
)

type cartLineView struct {
	ID        int64                `json:"id"`
	Quantity  int64                `json:"quantity"`
	Activity  *models.ActivityDate `json:"activityDate"`
	UnitPrice string               `json:"unitPrice"`
	LineTotal string               `json:"lineTotal"`
}

type cartView struct {
	Items []cartLineView `json:"items"`
	Count int64          `json:"count"`
	Total string         `json:"total"`
}

func (h *Handler) cartView() cartView {
	items := h.cart.Items()
	view := cartView{
		Items: make([]cartLineView, 0, len(items)),
		Count: items.Count(),
		Total: h.currency.Format(items.Total()),
	}
	for _, item := range items {
		view.Items = append(view.Items, cartLineView{
			ID:        item.ID,
			Quantity:  item.Quantity,
			Activity:  item.ActivityDate,
			UnitPrice: h.currency.Format(item.UnitPrice()),
			LineTotal: h.currency.Format(item.LineTotal()),
		})
	}
	return view
}

// Cart refreshes and shows the cart
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	h.cart.FetchCart(r.Context())
	if h.followNavigation(w, r) {
		return
	}
	h.history.Visit(router.CartRoute)
	h.writeJSON(w, http.StatusOK, h.cartView())
}

// DeleteCartItem removes one line from the cart
func (h *Handler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.jsonError(w, "Invalid cart item", http.StatusBadRequest)
		return
	}

	resp, err := h.cart.DeleteCart(r.Context(), id)
	if h.followNavigation(w, r) {
		return
	}
	if err != nil {
		msg := api.MessageOf(err)
		if msg == "" && resp != nil {
			msg = resp.Message
		}
		status := http.StatusBadGateway
		var be *api.BusinessError
		if errors.As(err, &be) {
			status = http.StatusUnprocessableEntity
		}
		if msg == "" {
			msg = "Could not remove the item"
		}
		h.jsonError(w, msg, status)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": resp.Message,
		"cart":    h.cartView(),
	})
}
