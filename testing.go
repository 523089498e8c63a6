package asyncprops

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// StaticMatcher is a Matcher over a fixed table of locations, for tests and
// examples. It performs no pattern matching.
type StaticMatcher map[string]Chain

// Match returns the chain registered for location or ErrNotFound.
func (m StaticMatcher) Match(ctx context.Context, location string) (Chain, error) {
	chain, ok := m[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return chain, nil
}

// RenderResult is one render captured by a Recorder.
type RenderResult struct {
	HTML  string
	Chain Chain
	Props []Props
}

// HTMLContains reports whether the rendered markup contains s.
func (r RenderResult) HTMLContains(s string) bool {
	return strings.Contains(r.HTML, s)
}

// Empty reports whether nothing was rendered.
func (r RenderResult) Empty() bool {
	return len(r.Props) == 0 && strings.TrimSpace(r.HTML) == ""
}

// Recorder is an Engine that keeps every render for later assertions.
//
//	rec := asyncprops.NewRecorder()
//	o := asyncprops.NewOrchestrator(rec)
//	nav, _ := o.Transition(ctx, chain)
//	<-nav.Done()
//	if !rec.Last().HTMLContains("cinnamon life") { ... }
type Recorder struct {
	mu      sync.Mutex
	renders []RenderResult
	err     error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes subsequent renders return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Render composes the chain to HTML and records it.
func (r *Recorder) Render(ctx context.Context, chain Chain, props []Props) error {
	var buf bytes.Buffer
	if err := Compose(chain, props).Render(ctx, &buf); err != nil {
		return err
	}
	cp := make([]Props, len(props))
	copy(cp, props)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.renders = append(r.renders, RenderResult{HTML: buf.String(), Chain: chain, Props: cp})
	return nil
}

// Renders returns every render so far, oldest first.
func (r *Recorder) Renders() []RenderResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RenderResult, len(r.renders))
	copy(out, r.renders)
	return out
}

// Count returns the number of renders.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

// Last returns the most recent render, or a zero RenderResult.
func (r *Recorder) Last() RenderResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return RenderResult{}
	}
	return r.renders[len(r.renders)-1]
}

// CountingLoader wraps a loader and counts its invocations.
type CountingLoader struct {
	inner Loader
	calls atomic.Int64
}

// NewCountingLoader wraps inner. A nil inner resolves with nil data.
func NewCountingLoader(inner Loader) *CountingLoader {
	return &CountingLoader{inner: inner}
}

// Load counts the call and delegates.
func (c *CountingLoader) Load(ctx context.Context, params Params, done Complete) {
	c.calls.Add(1)
	if c.inner == nil {
		done(nil, nil)
		return
	}
	c.inner.Load(ctx, params, done)
}

// Calls returns how many times Load was called.
func (c *CountingLoader) Calls() int {
	return int(c.calls.Load())
}

// GateCall is one pending invocation of a GateLoader.
type GateCall struct {
	Params Params
	Done   Complete
}

// GateLoader never completes on its own. Each invocation is delivered on
// Calls so a test decides when and how it finishes.
//
//	gate := asyncprops.NewGateLoader()
//	call := <-gate.Calls()
//	call.Done(nil, data)
type GateLoader struct {
	calls chan GateCall
}

// NewGateLoader creates a gate buffering up to 64 pending invocations.
func NewGateLoader() *GateLoader {
	return &GateLoader{calls: make(chan GateCall, 64)}
}

// Load queues the invocation.
func (g *GateLoader) Load(ctx context.Context, params Params, done Complete) {
	g.calls <- GateCall{Params: params, Done: done}
}

// Calls delivers invocations in arrival order.
func (g *GateLoader) Calls() <-chan GateCall {
	return g.calls
}

// TestResponse holds the result of serving a request for testing.
type TestResponse struct {
	HTML       string
	StatusCode int
	Headers    http.Header
}

// HTMLContains reports whether the body contains s.
func (r *TestResponse) HTMLContains(s string) bool {
	return strings.Contains(r.HTML, s)
}

// Payload extracts the hydration payload from the body.
func (r *TestResponse) Payload(global string) (Payload, error) {
	return ParseScript(r.HTML, global)
}

// TestServe issues a GET for path against h and records the response.
// headers are set on the request, e.g. {"HX-Request": "true"}.
func TestServe(h http.Handler, path string, headers map[string]string) *TestResponse {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return &TestResponse{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}
