package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/services/session"
)

// Login handles login form submission
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(r, "login", "email", "password")
	if err != nil {
		h.jsonError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimSpace(form["login"])
	if identifier == "" {
		identifier = strings.TrimSpace(form["email"])
	}
	password := form["password"]
	if identifier == "" || password == "" {
		h.jsonError(w, "Email or username and password required", http.StatusBadRequest)
		return
	}

	result, err := h.session.Login(r.Context(), identifier, password)
	if err != nil {
		var le *session.LoginError
		if errors.As(err, &le) {
			h.jsonError(w, le.Message, http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.jsonError(w, "Login failed", http.StatusBadGateway)
		return
	}

	if result.OTPRequired {
		h.writeJSON(w, http.StatusAccepted, result)
		return
	}

	if !h.followNavigation(w, r) {
		h.writeJSON(w, http.StatusOK, result)
	}
}

// Logout handles user logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())
	if !h.followNavigation(w, r) {
		h.redirect(w, r, "/")
	}
}
