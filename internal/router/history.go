package router

import "sync"

// History records navigations requested by the stores. The HTTP layer takes
// the pending target after an action and turns it into a redirect.
// A History belongs to one client: concurrent requests share its single
// pending slot.
type History struct {
	mu      sync.Mutex
	current string
	pending string
	visits  []string
}

const maxVisits = 50

// NewHistory starts at the home route
func NewHistory() *History {
	return &History{current: HomeRoute}
}

// Push navigates to p
func (h *History) Push(p string) {
	p = clean(p)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = p
	h.pending = p
	h.visits = append(h.visits, p)
	if len(h.visits) > maxVisits {
		h.visits = h.visits[len(h.visits)-maxVisits:]
	}
}

// Visit records a navigation that already happened (a page was served)
func (h *History) Visit(p string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = clean(p)
}

// Take returns and clears the pending navigation
func (h *History) Take() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.pending
	h.pending = ""
	return p, p != ""
}

// Current returns the route the client is on
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Visits returns the most recent pushed routes, oldest first
func (h *History) Visits() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.visits))
	copy(out, h.visits)
	return out
}
