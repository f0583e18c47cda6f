// Package router holds the page table, the navigation guard and the
// navigation history the stores push to.
package router

import (
	_ "embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known routes
const (
	HomeRoute    = "/"
	LoginRoute   = "/login"
	BookingRoute = "/account/booking"
	CartRoute    = "/account/cart"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Route is one page of the storefront
type Route struct {
	Path         string `yaml:"path" json:"path"`
	Name         string `yaml:"name" json:"name"`
	RequiresAuth bool   `yaml:"requires_auth" json:"requiresAuth"`
}

// Table is the set of known pages
type Table struct {
	routes []Route
	byPath map[string]Route
}

// DefaultTable parses the embedded route table
func DefaultTable() (*Table, error) {
	return ParseTable(defaultRoutes)
}

// ParseTable parses a YAML route table
func ParseTable(data []byte) (*Table, error) {
	var doc struct {
		Routes []Route `yaml:"routes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("router: parse routes: %w", err)
	}

	t := &Table{byPath: make(map[string]Route, len(doc.Routes))}
	for _, r := range doc.Routes {
		r.Path = clean(r.Path)
		if r.Name == "" {
			return nil, fmt.Errorf("router: route %q has no name", r.Path)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("router: duplicate route %q", r.Path)
		}
		t.byPath[r.Path] = r
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// Routes returns the routes in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route registered for p
func (t *Table) Lookup(p string) (Route, bool) {
	r, ok := t.byPath[clean(p)]
	return r, ok
}

// RequiresAuth reports whether p is an auth-only page or lives below one.
func (t *Table) RequiresAuth(p string) bool {
	p = clean(p)
	for _, r := range t.routes {
		if !r.RequiresAuth {
			continue
		}
		if p == r.Path || strings.HasPrefix(p, r.Path+"/") {
			return true
		}
	}
	return false
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
