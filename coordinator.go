package asyncprops

import (
	"context"
	"log/slog"
	"sync"
)

// Navigation tracks one generation's load from start to commit or
// supersession.
type Navigation struct {
	Generation Generation
	Pivot      int

	done      chan struct{}
	committed bool
}

func newNavigation(gen Generation, pivot int) *Navigation {
	return &Navigation{Generation: gen, Pivot: pivot, done: make(chan struct{})}
}

func (n *Navigation) finish(committed bool) {
	n.committed = committed
	close(n.done)
}

// Done is closed once every suffix loader of the navigation has completed
// and the merge was attempted.
func (n *Navigation) Done() <-chan struct{} {
	return n.done
}

// Committed reports whether the navigation's results reached the store.
// It is false for superseded navigations and meaningful only after Done.
func (n *Navigation) Committed() bool {
	select {
	case <-n.done:
		return n.committed
	default:
		return false
	}
}

// Wait blocks until the navigation finishes or ctx ends. It returns
// ErrSuperseded if a newer navigation won.
func (n *Navigation) Wait(ctx context.Context) error {
	select {
	case <-n.done:
		if !n.committed {
			return ErrSuperseded
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Coordinator runs the loaders of a navigation's reload suffix in parallel
// and commits their results to the store in a single merge.
type Coordinator struct {
	store   *Store
	invoker *Invoker
	logger  *slog.Logger
	metrics *Metrics

	// OnCommit is called after a generation's suffix is merged. It is the
	// render request; superseded generations never reach it.
	OnCommit func(ctx context.Context, gen Generation)
}

// NewCoordinator creates a coordinator writing to store.
func NewCoordinator(store *Store, invoker *Invoker, logger *slog.Logger, metrics *Metrics) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if invoker == nil {
		invoker = NewInvoker(logger, metrics)
	}
	return &Coordinator{
		store:   store,
		invoker: invoker,
		logger:  logger,
		metrics: metrics,
	}
}

// Load begins a new generation for chain and invokes every loader from
// pivot to the leaf. The pivot is lowered to what the store can carry over,
// so positions the store has never loaded are invoked too. It returns
// without waiting. An empty suffix commits
// before Load returns.
//
// Starting a new Load supersedes any unfinished one: its loaders run to
// completion but their results are dropped.
func (c *Coordinator) Load(ctx context.Context, chain Chain, pivot int) *Navigation {
	gen, pivot := c.store.Begin(chain, pivot)
	nav := newNavigation(gen, pivot)
	suffix := chain[pivot:]

	c.logger.Debug("navigation started",
		"generation", uint64(gen),
		"pivot", pivot,
		"reload", suffix.IDs(),
	)

	if len(suffix) == 0 {
		c.commit(ctx, nav, nil)
		return nav
	}

	results := make([]PropsEntry, len(suffix))
	var wg sync.WaitGroup
	for i, m := range suffix {
		wg.Add(1)
		outcome := c.invoker.Invoke(ctx, m.ID(), loaderOf(m), m.Params)
		go func() {
			defer wg.Done()
			results[i] = entryFromOutcome(m, gen, <-outcome)
		}()
	}

	go func() {
		wg.Wait()
		c.commit(ctx, nav, results)
	}()
	return nav
}

func (c *Coordinator) commit(ctx context.Context, nav *Navigation, results []PropsEntry) {
	if err := c.store.MergeSuffix(nav.Generation, results); err != nil {
		c.metrics.observeSuperseded()
		c.logger.Debug("navigation superseded", "generation", uint64(nav.Generation))
		nav.finish(false)
		return
	}
	for _, e := range results {
		if e.Err != nil {
			c.logger.Debug("loader errored", "route", string(e.Route), "error", e.Err)
		}
	}
	c.logger.Debug("navigation committed", "generation", uint64(nav.Generation))
	if c.OnCommit != nil {
		c.OnCommit(ctx, nav.Generation)
	}
	nav.finish(true)
}

func loaderOf(m Match) Loader {
	if m.Route == nil {
		return nil
	}
	return m.Route.Loader
}
