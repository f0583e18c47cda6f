package router

import (
	"net/http"
)

// SessionReader is what the guard needs to know about the session
type SessionReader interface {
	Authenticated() bool
}

// Guard decides, before each navigation, whether to proceed or redirect.
// It keeps no state: the session is consulted on every call.
type Guard struct {
	table   *Table
	session SessionReader
}

// NewGuard creates a new navigation guard
func NewGuard(table *Table, session SessionReader) *Guard {
	return &Guard{table: table, session: session}
}

// Resolve returns the redirect target for a navigation to target, or ok=true
// when the navigation may proceed.
func (g *Guard) Resolve(target string) (redirect string, ok bool) {
	authed := g.session.Authenticated()
	target = clean(target)

	if target == LoginRoute && authed {
		return BookingRoute, false
	}
	if g.table.RequiresAuth(target) && !authed {
		return LoginRoute, false
	}
	return "", true
}

// Middleware applies Resolve to every request
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if to, ok := g.Resolve(r.URL.Path); !ok {
			http.Redirect(w, r, to, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
