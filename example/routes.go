package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/asyncprops"
)

// Route identities.
const (
	routeApp    asyncprops.RouteID = "/"
	routeCereal asyncprops.RouteID = "/:index"
)

func registerRoutes(store *Store) *asyncprops.Registry {
	reg := asyncprops.NewRegistry()
	reg.Add(
		&asyncprops.Route{
			ID:   routeApp,
			Path: "/",
			Loader: asyncprops.Typed(func(ctx context.Context, _ asyncprops.Params) ([]Cereal, error) {
				return store.List(ctx)
			}),
			Component: asyncprops.ComponentFunc(appView),
			Decode:    decode[[]Cereal],
		},
		&asyncprops.Route{
			ID:   routeCereal,
			Path: ":index",
			Loader: asyncprops.Typed(func(ctx context.Context, p asyncprops.Params) (Cereal, error) {
				idx, err := strconv.Atoi(fmt.Sprint(p["index"]))
				if err != nil {
					return Cereal{}, fmt.Errorf("bad index %v", p["index"])
				}
				return store.Get(ctx, idx)
			}),
			Component: asyncprops.ComponentFunc(cerealView),
			Decode:    decode[Cereal],
		},
	)
	return reg
}

// matcher resolves "/" and "/{index}" against the registry.
func matcher(reg *asyncprops.Registry) asyncprops.Matcher {
	return asyncprops.MatcherFunc(func(ctx context.Context, location string) (asyncprops.Chain, error) {
		rest := strings.Trim(location, "/")
		if rest == "" {
			return reg.Chain(asyncprops.Step{ID: routeApp, Params: asyncprops.Params{}})
		}
		if strings.Contains(rest, "/") {
			return nil, fmt.Errorf("%w: %s", asyncprops.ErrNotFound, location)
		}
		return reg.Chain(
			asyncprops.Step{ID: routeApp, Params: asyncprops.Params{}},
			asyncprops.Step{ID: routeCereal, Params: asyncprops.Params{"index": rest}},
		)
	})
}

func decode[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func appView(ctx context.Context, p asyncprops.Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cereals, _ := p.Data.([]Cereal)
		var b strings.Builder
		b.WriteString(`<div class="app"><ul>`)
		for i, c := range cereals {
			fmt.Fprintf(&b, `<li><a href="/%d" hx-boost="true">%s</a></li>`, i, templ.EscapeString(c.Name))
		}
		b.WriteString("</ul>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if p.Children != nil {
			if err := p.Children.Render(ctx, w); err != nil {
				return err
			}
		} else if _, err := io.WriteString(w, "<p>pick a cereal</p>"); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

func cerealView(ctx context.Context, p asyncprops.Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Err != nil {
			_, err := io.WriteString(w, `<h1 class="error">`+templ.EscapeString(p.Err.Error())+"</h1>")
			return err
		}
		c, _ := p.Data.(Cereal)
		label := ""
		if c.Sugary {
			label = " (sugary)"
		}
		_, err := io.WriteString(w, "<h1>heck yeah! "+templ.EscapeString(c.Name)+label+"</h1>")
		return err
	})
}

func layout(body, script templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html><head><title>Cereals</title>`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if err := script.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
