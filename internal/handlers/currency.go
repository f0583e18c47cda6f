package handlers

import (
	"net/http"
	"strings"
)

// Currencies lists the available currencies and the selected one
func (h *Handler) Currencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"selected":   h.currency.Selected(),
		"currencies": h.currency.Currencies(),
	})
}

// ChangeCurrency selects a currency by id or code
func (h *Handler) ChangeCurrency(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(r, "currency")
	if err != nil {
		h.jsonError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	c, ok := h.currency.Lookup(strings.TrimSpace(form["currency"]))
	if !ok {
		h.jsonError(w, "Unknown currency", http.StatusNotFound)
		return
	}
	h.currency.ChangeCurrency(c)
	h.writeJSON(w, http.StatusOK, map[string]any{"selected": h.currency.Selected()})
}
