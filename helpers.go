package asyncprops

import (
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response as HTML.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted returns true if the request is a boosted navigation (hx-boost).
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// IsPartial reports whether the client already has a page and only wants
// the route markup swapped in. Such responses skip the layout and the
// hydration script.
func IsPartial(r *http.Request) bool {
	return IsHTMX(r) || IsBoosted(r)
}
