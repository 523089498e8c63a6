// Package asyncpropsecho provides Echo framework integration for asyncprops
// servers.
//
// Mount a server onto an Echo instance:
//
//	e := echo.New()
//	srv := asyncpropsecho.Mount(e, router, asyncprops.WithLayout(page))
//
// Or mount on a group with middleware. The matcher then sees locations
// relative to the group prefix:
//
//	g := e.Group("/app", authMiddleware)
//	asyncpropsecho.MountGroup(g, router)
package asyncpropsecho

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/asyncprops"
)

// Mount creates a server resolving paths with matcher and serves it for
// every GET on e.
//
//	e := echo.New()
//	asyncpropsecho.Mount(e, router, asyncprops.WithConcurrency(8))
func Mount(e *echo.Echo, matcher asyncprops.Matcher, opts ...asyncprops.Option) *asyncprops.Server {
	srv := asyncprops.NewServer(matcher, opts...)
	e.GET("/*", Handler(srv))
	return srv
}

// MountGroup creates a server and serves it for every GET under g.
// This allows pages to share middleware with the group (auth, logging, etc.).
func MountGroup(g *echo.Group, matcher asyncprops.Matcher, opts ...asyncprops.Option) *asyncprops.Server {
	srv := asyncprops.NewServer(matcher, opts...)
	g.GET("/*", Handler(srv))
	return srv
}

// Handler adapts h to Echo. The location handed to h is the wildcard part
// of the route, so a handler mounted on a group sees paths relative to the
// group.
func Handler(h http.Handler) echo.HandlerFunc {
	wrapped := echo.WrapHandler(h)
	return func(c echo.Context) error {
		r := c.Request()
		if wild := c.Param("*"); "/"+wild != r.URL.Path {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/" + wild
			r2.URL.RawPath = ""
			c.SetRequest(r2)
		}
		return wrapped(c)
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return asyncpropsecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
