package asyncprops

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Orchestrator connects router transitions to loading and rendering.
//
// On each transition it computes the pivot against the chain currently in
// the store, reloads only the suffix from the pivot, and asks the engine to
// render whenever the committed state changes. Until a navigation commits
// the engine keeps showing the previous chain; on the very first load there
// is nothing to show and the engine receives empty props.
//
//	engine := asyncprops.NewTemplEngine(paint)
//	o := asyncprops.NewOrchestrator(engine,
//	    asyncprops.WithMatcher(router),
//	    asyncprops.WithHydration(handoff),
//	)
//	nav, err := o.Navigate(ctx, "/0")
type Orchestrator struct {
	mu       sync.Mutex // serializes transitions
	renderMu sync.Mutex // serializes engine calls

	store   *Store
	coord   *Coordinator
	engine  Engine
	matcher Matcher
	handoff *Handoff
	equal   ParamsEqual
	logger  *slog.Logger
	metrics *Metrics
	started bool
}

// NewOrchestrator creates an orchestrator rendering through engine.
func NewOrchestrator(engine Engine, opts ...Option) *Orchestrator {
	o := newOptions(opts)
	store := NewStore()
	orc := &Orchestrator{
		store:   store,
		engine:  engine,
		matcher: o.matcher,
		handoff: o.handoff,
		equal:   o.equal,
		logger:  o.logger,
		metrics: o.metrics,
	}
	orc.coord = NewCoordinator(store, NewInvoker(o.logger, o.metrics), o.logger, o.metrics)
	orc.coord.OnCommit = func(ctx context.Context, _ Generation) {
		orc.render(ctx)
	}
	return orc
}

// Store returns the orchestrator's props store.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// Navigate resolves location with the configured matcher and transitions
// to the resulting chain.
func (o *Orchestrator) Navigate(ctx context.Context, location string) (*Navigation, error) {
	if o.matcher == nil {
		return nil, fmt.Errorf("asyncprops: navigate %q: no matcher configured", location)
	}
	chain, err := o.matcher.Match(ctx, location)
	if err != nil {
		return nil, err
	}
	return o.Transition(ctx, chain)
}

// Transition moves to chain. It never blocks on loaders; the returned
// Navigation reports when the new state has been committed and rendered.
func (o *Orchestrator) Transition(ctx context.Context, chain Chain) (*Navigation, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	first := !o.started
	o.started = true
	if first {
		if nav, ok := o.hydrate(ctx, chain); ok {
			return nav, nil
		}
	}

	pivot := o.store.PivotFor(chain, o.equal)
	nav := o.coord.Load(ctx, chain, pivot)
	if first {
		// Nothing has loaded yet, so the first paint is whatever is
		// committed: empty unless the loaders already finished.
		o.render(ctx)
	}
	return nav, nil
}

// hydrate seeds the store from the handoff payload on the first transition.
// The payload is consumed whether or not it fits.
func (o *Orchestrator) hydrate(ctx context.Context, chain Chain) (*Navigation, bool) {
	payload, ok := o.handoff.Take()
	if !ok {
		return nil, false
	}
	if len(payload) != len(chain) {
		o.hydrationMismatch(fmt.Errorf("%w: payload has %d positions, chain has %d",
			ErrHydrationMismatch, len(payload), len(chain)))
		return nil, false
	}

	data := make([]any, len(chain))
	for i, m := range chain {
		route := m.Route
		if route == nil {
			route = &Route{}
		}
		v, err := route.decode(payload[i])
		if err != nil {
			o.hydrationMismatch(fmt.Errorf("%w: position %d: %v", ErrHydrationMismatch, i, err))
			return nil, false
		}
		data[i] = v
	}

	gen := o.store.Seed(chain, data)
	o.metrics.observeHydration(hydrationSeeded)
	o.logger.Debug("hydrated from payload", "generation", uint64(gen), "positions", len(chain))
	o.render(ctx)

	nav := newNavigation(gen, len(chain))
	nav.finish(true)
	return nav, true
}

func (o *Orchestrator) hydrationMismatch(err error) {
	o.metrics.observeHydration(hydrationMismatch)
	o.logger.Warn("ignoring hydration payload", "error", err)
}

// render pushes the committed state to the engine. It always reads the
// latest commit, so out-of-order render requests converge.
func (o *Orchestrator) render(ctx context.Context) {
	o.renderMu.Lock()
	defer o.renderMu.Unlock()

	chain, entries := o.store.Committed()
	if err := o.engine.Render(ctx, chain, PropsChain(chain, entries)); err != nil {
		o.logger.Error("render failed", "error", err)
	}
}
