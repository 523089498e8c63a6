package asyncprops

import (
	"context"
	"encoding/json"
)

// RouteID is the stable identity of a route definition, typically its
// registered path. Two matches refer to the same route iff their IDs are
// equal; pointer identity is never consulted.
type RouteID string

// Params holds the resolved path parameters of one matched route.
type Params map[string]any

// Route is an immutable route definition owned by the application's router.
//
//	app := &asyncprops.Route{
//	    ID:        "/",
//	    Loader:    asyncprops.LoaderFunc(loadCereals),
//	    Component: appView,
//	}
type Route struct {
	ID   RouteID
	Path string

	// Loader resolves the route's data. Nil means the route has no data and
	// resolves immediately.
	Loader Loader

	// Component renders the route with its loaded props.
	Component Component

	// Decode turns one hydration payload element into the route's data.
	// Defaults to JSON decoding into any.
	Decode func(raw json.RawMessage) (any, error)
}

func (r *Route) decode(raw json.RawMessage) (any, error) {
	if r.Decode != nil {
		return r.Decode(raw)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Match pairs a route with the params it was resolved with.
type Match struct {
	Route  *Route
	Params Params
}

// ID returns the matched route's identity, or "" for an empty match.
func (m Match) ID() RouteID {
	if m.Route == nil {
		return ""
	}
	return m.Route.ID
}

// Chain is the ordered root-to-leaf sequence of matches for one location.
// The index of a match is its depth.
type Chain []Match

// IDs returns the route identities of the chain in order.
func (c Chain) IDs() []RouteID {
	ids := make([]RouteID, len(c))
	for i, m := range c {
		ids[i] = m.ID()
	}
	return ids
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(ctx context.Context, location string) (Chain, error)

// Match calls f(ctx, location).
func (f MatcherFunc) Match(ctx context.Context, location string) (Chain, error) {
	return f(ctx, location)
}
