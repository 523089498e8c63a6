package asyncprops

import (
	"context"

	"github.com/a-h/templ"
)

// Complete reports a loader's outcome. Only the first call per invocation
// counts; later calls are ignored.
type Complete func(err error, data any)

// Loader resolves the data for one matched route.
//
// Implementations may complete synchronously inside Load or later from any
// goroutine. The three common shapes have adapters: LoaderFunc (return
// value), CallbackLoader (callback) and ChanLoader (channel).
type Loader interface {
	Load(ctx context.Context, params Params, done Complete)
}

// Component renders one route with its props.
//
// Components must be pure: read props and produce markup. The same
// Component value is reused for a route across renders, so any state a
// component keeps survives prop updates.
//
//	func (v *CerealView) Render(ctx context.Context, p asyncprops.Props) templ.Component {
//	    data, _ := p.Data.(CerealData)
//	    return cerealTemplate(data)
//	}
type Component interface {
	Render(ctx context.Context, props Props) templ.Component
}

// Engine is the rendering collaborator. It receives the ordered props of
// the chain to display, root first, each time the displayed state changes.
// An empty slice means there is nothing to show yet.
type Engine interface {
	Render(ctx context.Context, chain Chain, props []Props) error
}

// Matcher is implemented by the router collaborator. It resolves a location
// to the chain of matched routes, returning ErrNotFound when nothing matches.
type Matcher interface {
	Match(ctx context.Context, location string) (Chain, error)
}
