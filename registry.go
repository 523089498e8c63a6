package asyncprops

import (
	"fmt"
	"sync"
)

// Registry holds route definitions by identity.
//
// Registration is explicit and checked up front: empty or duplicate IDs
// panic in Add, not during a navigation. Routers build chains from the
// registered definitions so every match of a route shares one *Route.
type Registry struct {
	mu     sync.RWMutex
	routes map[RouteID]*Route
	order  []RouteID
}

// NewRegistry creates an empty route registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[RouteID]*Route)}
}

// Add registers routes. Panics on a nil route, an empty ID or an ID
// collision.
func (reg *Registry) Add(routes ...*Route) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, r := range routes {
		if r == nil {
			panic("asyncprops: nil route")
		}
		if r.ID == "" {
			panic(fmt.Sprintf("asyncprops: route with path %q has no ID", r.Path))
		}
		if _, exists := reg.routes[r.ID]; exists {
			panic(fmt.Sprintf("asyncprops: route ID collision for %q", string(r.ID)))
		}
		reg.routes[r.ID] = r
		reg.order = append(reg.order, r.ID)
	}
}

// Route returns the route registered under id.
func (reg *Registry) Route(id RouteID) (*Route, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.routes[id]
	return r, ok
}

// MustRoute is like Route but panics when id is unknown.
func (reg *Registry) MustRoute(id RouteID) *Route {
	r, ok := reg.Route(id)
	if !ok {
		panic(fmt.Sprintf("asyncprops: route %q not registered", string(id)))
	}
	return r
}

// IDs returns the registered identities in registration order.
func (reg *Registry) IDs() []RouteID {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]RouteID, len(reg.order))
	copy(ids, reg.order)
	return ids
}

// Step names one level of a chain being built with Chain.
type Step struct {
	ID     RouteID
	Params Params
}

// Chain builds a matched chain from registered routes, root first.
// Unknown IDs return an error wrapping ErrNotFound.
func (reg *Registry) Chain(steps ...Step) (Chain, error) {
	chain := make(Chain, len(steps))
	for i, s := range steps {
		r, ok := reg.Route(s.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, string(s.ID))
		}
		chain[i] = Match{Route: r, Params: s.Params}
	}
	return chain, nil
}
