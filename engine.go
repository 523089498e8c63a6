package asyncprops

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// Props is what a route's component receives at render time.
//
// Data is the route's loaded value (nil while never loaded or on error),
// Err the *LoaderError when the loader failed. Children is the already
// composed subtree below this route, or nil at the leaf.
type Props struct {
	Route    RouteID
	Params   Params
	Status   Status
	Data     any
	Err      error
	Children templ.Component
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(ctx context.Context, props Props) templ.Component

// Render calls f(ctx, props).
func (f ComponentFunc) Render(ctx context.Context, props Props) templ.Component {
	return f(ctx, props)
}

// PropsChain pairs committed entries with their chain into render props.
// Children are left unset; Compose fills them in.
func PropsChain(chain Chain, entries []PropsEntry) []Props {
	n := min(len(chain), len(entries))
	out := make([]Props, n)
	for i := 0; i < n; i++ {
		e := entries[i]
		out[i] = Props{
			Route:  e.Route,
			Params: e.Params,
			Status: e.Status,
			Data:   e.Data,
			Err:    e.Err,
		}
	}
	return out
}

// Compose nests the chain's components leaf to root, so that each route
// renders its child route through Props.Children. Routes without a
// component pass their children through unchanged.
func Compose(chain Chain, props []Props) templ.Component {
	var children templ.Component
	for i := min(len(chain), len(props)) - 1; i >= 0; i-- {
		p := props[i]
		p.Children = children
		route := chain[i].Route
		if route == nil || route.Component == nil {
			continue
		}
		comp, ctxProps := route.Component, p
		children = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return comp.Render(ctx, ctxProps).Render(ctx, w)
		})
	}
	if children == nil {
		return templ.NopComponent
	}
	return children
}

// TemplEngine is an Engine that composes the chain with templ and writes
// the markup to a sink. It keeps the most recent output.
type TemplEngine struct {
	mu   sync.Mutex
	sink func(html string)
	last string
}

// NewTemplEngine creates an engine. sink, if non-nil, receives every
// rendered document.
func NewTemplEngine(sink func(html string)) *TemplEngine {
	return &TemplEngine{sink: sink}
}

// Render composes and renders the chain.
func (e *TemplEngine) Render(ctx context.Context, chain Chain, props []Props) error {
	var buf bytes.Buffer
	if err := Compose(chain, props).Render(ctx, &buf); err != nil {
		return err
	}
	html := buf.String()

	e.mu.Lock()
	e.last = html
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink(html)
	}
	return nil
}

// HTML returns the last rendered document.
func (e *TemplEngine) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}
