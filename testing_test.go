package asyncprops

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestStaticMatcher(t *testing.T) {
	f := newCerealFixture(nil, nil)

	chain, err := f.matcher.Match(context.Background(), "/1")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if ids := chain.IDs(); len(ids) != 2 || ids[1] != "/:index" {
		t.Errorf("IDs() = %v", ids)
	}

	if _, err := f.matcher.Match(context.Background(), "/2"); !IsNotFound(err) {
		t.Errorf("Match(/2) error = %v, want ErrNotFound", err)
	}
}

func TestRecorder(t *testing.T) {
	f := newCerealFixture(nil, nil)
	rec := NewRecorder()

	if !rec.Last().Empty() || rec.Count() != 0 {
		t.Fatal("new recorder should be empty")
	}

	props := []Props{{Route: "/", Data: appData{Cereals: testCereals}}}
	if err := rec.Render(context.Background(), f.chain(), props); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if rec.Count() != 1 || !rec.Last().HTMLContains("<li>cinnamon life</li>") {
		t.Errorf("Last() = %q", rec.Last().HTML)
	}

	// Mutating the caller's slice must not change the recording.
	props[0].Data = nil
	if rec.Renders()[0].Props[0].Data == nil {
		t.Error("recorder kept a reference to caller props")
	}

	errBoom := errors.New("engine down")
	rec.FailWith(errBoom)
	if err := rec.Render(context.Background(), f.chain(), props); !errors.Is(err, errBoom) {
		t.Errorf("Render() error = %v, want %v", err, errBoom)
	}
	if rec.Count() != 1 {
		t.Errorf("failed render was recorded")
	}
}

func TestCountingLoader(t *testing.T) {
	c := NewCountingLoader(nil)
	var got any = "unset"
	c.Load(context.Background(), nil, func(err error, data any) { got = data })
	c.Load(context.Background(), nil, func(error, any) {})

	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", c.Calls())
	}
	if got != nil {
		t.Errorf("nil inner resolved with %v, want nil", got)
	}
}

func TestGateLoader(t *testing.T) {
	gate := NewGateLoader()
	var got any
	gate.Load(context.Background(), Params{"index": "0"}, func(err error, data any) { got = data })

	call := nextCall(t, gate)
	if call.Params["index"] != "0" {
		t.Errorf("Params = %v", call.Params)
	}
	if got != nil {
		t.Fatal("gate completed on its own")
	}
	call.Done(nil, "released")
	if got != "released" {
		t.Errorf("data = %v, want released", got)
	}
	noCall(t, gate)
}

func TestTestServe(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Partial", r.Header.Get("HX-Request"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("<script>__ASYNC_PROPS__ = [1];</script>"))
	})

	resp := TestServe(h, "/x", map[string]string{"HX-Request": "true"})
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Headers.Get("X-Partial") != "true" {
		t.Error("request headers not applied")
	}
	p, err := resp.Payload("")
	if err != nil || len(p) != 1 {
		t.Errorf("Payload() = %v, %v", p, err)
	}
}
