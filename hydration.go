package asyncprops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultGlobal is the script variable that carries the hydration payload.
const DefaultGlobal = "__ASYNC_PROPS__"

var globalName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

var errNotAssigned = fmt.Errorf("%w: global not assigned", ErrInvalidPayload)

// Payload is the server's loaded data, one JSON value per chain position
// in chain order.
type Payload []json.RawMessage

// NewPayload encodes each value as JSON.
func NewPayload(values []any) (Payload, error) {
	p := make(Payload, len(values))
	for i, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: position %d: %v", ErrInvalidPayload, i, err)
		}
		p[i] = raw
	}
	return p, nil
}

// MarshalIndent returns the payload as a JSON array indented with two
// spaces.
func (p Payload) MarshalIndent() ([]byte, error) {
	values := []json.RawMessage(p)
	if values == nil {
		values = []json.RawMessage{}
	}
	return json.MarshalIndent(values, "", "  ")
}

// Script returns the payload as a script tag assigning it to global:
//
//	<script>__ASYNC_PROPS__ = [
//	  {...}
//	];</script>
//
// JSON encoding escapes '<', '>' and '&', so data cannot close the tag.
func (p Payload) Script(global string) (string, error) {
	if global == "" {
		global = DefaultGlobal
	}
	if !globalName.MatchString(global) {
		return "", fmt.Errorf("asyncprops: invalid script global %q", global)
	}
	data, err := p.MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return "<script>" + global + " = " + string(data) + ";</script>", nil
}

// ScriptTag returns Script(DefaultGlobal).
func (p Payload) ScriptTag() (string, error) {
	return p.Script(DefaultGlobal)
}

// ScriptComponent renders the payload script as a templ component.
func ScriptComponent(p Payload, global string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s, err := p.Script(global)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	})
}

// ParseScript extracts the payload assigned to global from s, which may be
// the script tag, its body, or a whole document.
func ParseScript(s, global string) (Payload, error) {
	if global == "" {
		global = DefaultGlobal
	}
	idx := strings.Index(s, global)
	if idx < 0 {
		return nil, errNotAssigned
	}
	rest := strings.TrimLeft(s[idx+len(global):], " \t\r\n")
	if !strings.HasPrefix(rest, "=") {
		return nil, errNotAssigned
	}

	var values []json.RawMessage
	dec := json.NewDecoder(strings.NewReader(rest[1:]))
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if values == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrInvalidPayload)
	}
	return Payload(values), nil
}

// Handoff carries a payload from bootstrap to the first render. It yields
// the payload at most once.
type Handoff struct {
	mu      sync.Mutex
	payload Payload
	taken   bool
}

// NewHandoff wraps p for a single consumer.
func NewHandoff(p Payload) *Handoff {
	return &Handoff{payload: p}
}

// HandoffFromScript parses the server output for the payload assigned to
// global. A document without a payload yields an empty handoff rather than
// an error, since live loading is the fallback.
func HandoffFromScript(s, global string) (*Handoff, error) {
	p, err := ParseScript(s, global)
	if err != nil {
		if errors.Is(err, errNotAssigned) {
			return &Handoff{}, nil
		}
		return nil, err
	}
	return NewHandoff(p), nil
}

// Take returns the payload on the first call and discards it.
func (h *Handoff) Take() (Payload, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.taken {
		return nil, false
	}
	h.taken = true
	p := h.payload
	h.payload = nil
	return p, p != nil
}

// ServerResult is the outcome of loading a full chain on the server.
type ServerResult struct {
	Chain   Chain
	Entries []PropsEntry
	Payload Payload
}

// Props returns the render props for the loaded chain.
func (r *ServerResult) Props() []Props {
	return PropsChain(r.Chain, r.Entries)
}

// LoadOnServer invokes the loader of every position in chain, waits for all
// of them, and builds the hydration payload. There is no previous chain on
// the server, so nothing is reused.
//
// A failing loader does not stop the others. Its position is errored, its
// payload element is null, and the returned error joins every
// *LoaderError; the result is still usable for rendering.
func LoadOnServer(ctx context.Context, chain Chain, opts ...Option) (*ServerResult, error) {
	return loadOnServer(ctx, chain, newOptions(opts), nil)
}

func loadOnServer(ctx context.Context, chain Chain, o *options, group *singleflight.Group) (*ServerResult, error) {
	inv := NewInvoker(o.logger, o.metrics)
	entries := make([]PropsEntry, len(chain))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, m := range chain {
		g.Go(func() error {
			entries[i] = entryFromOutcome(m, 0, serverLoad(ctx, inv, o, group, m))
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	values := make([]any, len(entries))
	for i, e := range entries {
		if e.Err != nil {
			errs = append(errs, e.Err)
			continue
		}
		values[i] = e.Data
	}
	payload, err := NewPayload(values)
	if err != nil {
		errs = append(errs, err)
	}
	return &ServerResult{Chain: chain, Entries: entries, Payload: payload}, errors.Join(errs...)
}

// serverLoad runs one position's loader for a server render. With a group
// and dedupe on, identical (route, params) loads share one invocation. The
// shared load is detached from any single request's cancellation; each
// caller stops waiting when its own ctx ends.
func serverLoad(ctx context.Context, inv *Invoker, o *options, group *singleflight.Group, m Match) Outcome {
	canceled := func(err error) Outcome {
		return Outcome{Route: m.ID(), Err: &LoaderError{Route: m.ID(), Err: err}}
	}

	load := func(ctx context.Context) Outcome {
		if o.limiter != nil && loaderOf(m) != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return canceled(err)
			}
		}
		return <-inv.Invoke(ctx, m.ID(), loaderOf(m), m.Params)
	}

	var key string
	if group != nil && o.dedupe {
		if k, err := paramsKey(m.ID(), m.Params); err == nil {
			key = k
		}
	}

	var shared <-chan singleflight.Result
	if key != "" {
		shared = group.DoChan(key, func() (any, error) {
			return load(context.WithoutCancel(ctx)), nil
		})
	} else {
		own := make(chan singleflight.Result, 1)
		go func() { own <- singleflight.Result{Val: load(ctx)} }()
		shared = own
	}

	select {
	case res := <-shared:
		return res.Val.(Outcome)
	case <-ctx.Done():
		return canceled(ctx.Err())
	}
}
