package asyncprops

import (
	"log/slog"

	"github.com/a-h/templ"
	"golang.org/x/time/rate"
)

// Option configures an Orchestrator, a Server or LoadOnServer. Options that
// do not apply to the receiver are ignored.
type Option func(*options)

// Layout wraps the rendered chain and the hydration script into a full
// document. script is templ.NopComponent when no payload is emitted.
type Layout func(body, script templ.Component) templ.Component

type options struct {
	logger      *slog.Logger
	metrics     *Metrics
	equal       ParamsEqual
	matcher     Matcher
	handoff     *Handoff
	global      string
	concurrency int
	limiter     *rate.Limiter
	layout      Layout
	dedupe      bool
}

func newOptions(opts []Option) *options {
	o := &options{
		equal:  DeepEqual,
		global: DefaultGlobal,
		dedupe: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records loader, supersession and hydration metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithParamsEqual sets the comparator used to detect param changes.
// Defaults to DeepEqual.
func WithParamsEqual(eq ParamsEqual) Option {
	return func(o *options) {
		if eq != nil {
			o.equal = eq
		}
	}
}

// WithMatcher sets the router used by Orchestrator.Navigate.
func WithMatcher(m Matcher) Option {
	return func(o *options) {
		o.matcher = m
	}
}

// WithHydration hands the server's payload to the orchestrator for its
// first render.
func WithHydration(h *Handoff) Option {
	return func(o *options) {
		o.handoff = h
	}
}

// WithGlobal overrides the script variable name carrying the payload.
// Defaults to DefaultGlobal.
func WithGlobal(name string) Option {
	return func(o *options) {
		if name != "" {
			o.global = name
		}
	}
}

// WithConcurrency caps how many loaders run at once during server loading.
// Zero means no limit.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithRateLimit paces server-side loader invocations to rps with the given
// burst. Waiting honours the request context.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 || burst <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLayout wraps server output in a document layout. HTMX partial
// requests bypass it.
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithDedupe toggles sharing of identical concurrent server loads.
// Enabled by default.
func WithDedupe(on bool) Option {
	return func(o *options) {
		o.dedupe = on
	}
}
