package asyncprops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/a-h/templ"
)

var testCereals = []string{"cinnamon life", "berry berry kix"}

type appData struct {
	Cereals []string `json:"cereals"`
}

type cerealData struct {
	Cereal string `json:"cereal"`
}

// appView renders the cereal list and its child route, or "no child".
var appView = ComponentFunc(func(ctx context.Context, p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, _ := p.Data.(appData)
		if _, err := io.WriteString(w, "<div><ul>"); err != nil {
			return err
		}
		for _, c := range data.Cereals {
			if _, err := io.WriteString(w, "<li>"+c+"</li>"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</ul>"); err != nil {
			return err
		}
		if p.Children != nil {
			if err := p.Children.Render(ctx, w); err != nil {
				return err
			}
		} else if _, err := io.WriteString(w, "<div>no child</div>"); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
})

var cerealView = ComponentFunc(func(ctx context.Context, p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Err != nil {
			_, err := io.WriteString(w, "<h1>error: "+p.Err.Error()+"</h1>")
			return err
		}
		data, _ := p.Data.(cerealData)
		_, err := io.WriteString(w, "<h1>heck yeah! "+data.Cereal+"</h1>")
		return err
	})
})

// loadApp completes on another goroutine, like a timer-based loader.
var loadApp = CallbackLoader(func(ctx context.Context, _ Params, done Complete) {
	go done(nil, appData{Cereals: testCereals})
})

var loadCereal = CallbackLoader(func(ctx context.Context, p Params, done Complete) {
	go func() {
		idx, err := strconv.Atoi(fmt.Sprint(p["index"]))
		if err != nil || idx < 0 || idx >= len(testCereals) {
			done(fmt.Errorf("no cereal at %v", p["index"]), nil)
			return
		}
		done(nil, cerealData{Cereal: testCereals[idx]})
	}()
})

func decodeInto[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

type cerealFixture struct {
	app         *Route
	cereal      *Route
	appLoads    *CountingLoader
	cerealLoads *CountingLoader
	matcher     StaticMatcher
}

// newCerealFixture builds the two-level App/Cereal route tree. Nil loaders
// default to the asynchronous test loaders.
func newCerealFixture(appLoader, cerealLoader Loader) *cerealFixture {
	if appLoader == nil {
		appLoader = loadApp
	}
	if cerealLoader == nil {
		cerealLoader = loadCereal
	}
	f := &cerealFixture{
		appLoads:    NewCountingLoader(appLoader),
		cerealLoads: NewCountingLoader(cerealLoader),
	}
	f.app = &Route{ID: "/", Path: "/", Loader: f.appLoads, Component: appView, Decode: decodeInto[appData]}
	f.cereal = &Route{ID: "/:index", Path: ":index", Loader: f.cerealLoads, Component: cerealView, Decode: decodeInto[cerealData]}
	f.matcher = StaticMatcher{
		"/":  f.chain(),
		"/0": f.chain("0"),
		"/1": f.chain("1"),
	}
	return f
}

func (f *cerealFixture) chain(index ...string) Chain {
	c := Chain{{Route: f.app, Params: Params{}}}
	if len(index) > 0 {
		c = append(c, Match{Route: f.cereal, Params: Params{"index": index[0]}})
	}
	return c
}

func waitNav(t *testing.T, nav *Navigation) {
	t.Helper()
	select {
	case <-nav.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("navigation %d did not finish", nav.Generation)
	}
}

func nextCall(t *testing.T, g *GateLoader) GateCall {
	t.Helper()
	select {
	case c := <-g.Calls():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("loader was not invoked")
		return GateCall{}
	}
}

func noCall(t *testing.T, g *GateLoader) {
	t.Helper()
	select {
	case c := <-g.Calls():
		t.Fatalf("unexpected loader call with params %v", c.Params)
	case <-time.After(20 * time.Millisecond):
	}
}
