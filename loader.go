package asyncprops

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LoaderFunc adapts a synchronous function to the Loader interface.
type LoaderFunc func(ctx context.Context, params Params) (any, error)

// Load calls f and reports its return values.
func (f LoaderFunc) Load(ctx context.Context, params Params, done Complete) {
	data, err := f(ctx, params)
	done(err, data)
}

// CallbackLoader adapts a callback-style function to the Loader interface.
//
//	asyncprops.CallbackLoader(func(ctx context.Context, p asyncprops.Params, cb asyncprops.Complete) {
//	    time.AfterFunc(10*time.Millisecond, func() { cb(nil, data) })
//	})
type CallbackLoader func(ctx context.Context, params Params, done Complete)

// Load calls f with the completion callback.
func (f CallbackLoader) Load(ctx context.Context, params Params, done Complete) {
	f(ctx, params, done)
}

// Result is a single loader outcome delivered over a channel.
type Result struct {
	Data any
	Err  error
}

// ChanLoader adapts a function returning a result channel. The first value
// received is the outcome; a channel closed without a value reports
// ErrNoResult.
type ChanLoader func(ctx context.Context, params Params) <-chan Result

// Load waits for the first result on the channel returned by f.
func (f ChanLoader) Load(ctx context.Context, params Params, done Complete) {
	res, ok := <-f(ctx, params)
	if !ok {
		done(ErrNoResult, nil)
		return
	}
	done(res.Err, res.Data)
}

// Typed wraps a function returning a concrete data type.
func Typed[T any](fn func(ctx context.Context, params Params) (T, error)) Loader {
	return LoaderFunc(func(ctx context.Context, params Params) (any, error) {
		return fn(ctx, params)
	})
}

// Outcome is the normalized completion of one loader invocation.
type Outcome struct {
	Route RouteID
	Data  any
	Err   error // *LoaderError when non-nil
}

// Invoker runs loaders under a uniform contract: exactly one Outcome per
// invocation, errors and panics captured rather than propagated, and the
// caller never blocked.
type Invoker struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewInvoker creates an invoker. Both arguments may be nil.
func NewInvoker(logger *slog.Logger, metrics *Metrics) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{logger: logger, metrics: metrics}
}

// Invoke starts loader for route with params and returns a channel that
// receives exactly one Outcome. A nil loader resolves immediately with nil
// data.
func (inv *Invoker) Invoke(ctx context.Context, route RouteID, loader Loader, params Params) <-chan Outcome {
	out := make(chan Outcome, 1)
	if loader == nil {
		out <- Outcome{Route: route}
		return out
	}

	start := time.Now()
	var once sync.Once
	done := func(err error, data any) {
		fired := false
		once.Do(func() {
			fired = true
			if err != nil {
				err = &LoaderError{Route: route, Err: err}
				data = nil
			}
			inv.metrics.observeLoad(route, err, time.Since(start))
			out <- Outcome{Route: route, Data: data, Err: err}
		})
		if !fired {
			inv.logger.Warn("loader completed more than once", "route", string(route))
		}
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done(fmt.Errorf("%w: %v", ErrLoaderPanic, r), nil)
			}
		}()
		loader.Load(ctx, params, done)
	}()
	return out
}
