package asyncpropsecho

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/asyncprops"
)

func greetingRoute() *asyncprops.Route {
	return &asyncprops.Route{
		ID: "/hello",
		Loader: asyncprops.LoaderFunc(func(ctx context.Context, p asyncprops.Params) (any, error) {
			return "hello " + p["name"].(string), nil
		}),
		Component: asyncprops.ComponentFunc(func(ctx context.Context, p asyncprops.Props) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				s, _ := p.Data.(string)
				_, err := io.WriteString(w, "<p>"+s+"</p>")
				return err
			})
		}),
	}
}

func testMatcher() asyncprops.StaticMatcher {
	r := greetingRoute()
	return asyncprops.StaticMatcher{
		"/hello": {{Route: r, Params: asyncprops.Params{"name": "kix"}}},
	}
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMount(t *testing.T) {
	e := echo.New()
	srv := Mount(e, testMatcher())

	if srv == nil {
		t.Fatal("Mount returned nil server")
	}

	rec := serve(e, "/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>hello kix</p>") {
		t.Errorf("body = %s", body)
	}
	if !strings.Contains(body, "<script>"+asyncprops.DefaultGlobal+" = ") {
		t.Errorf("body missing hydration script: %s", body)
	}
}

func TestMountNotFound(t *testing.T) {
	e := echo.New()
	Mount(e, testMatcher())

	if rec := serve(e, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	g := e.Group("/app")
	srv := MountGroup(g, testMatcher())

	if srv == nil {
		t.Fatal("MountGroup returned nil server")
	}

	rec := serve(e, "/app/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<p>hello kix</p>") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMountGroupMiddleware(t *testing.T) {
	e := echo.New()
	g := e.Group("/app", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Group", "yes")
			return next(c)
		}
	})
	MountGroup(g, testMatcher())

	rec := serve(e, "/app/hello")
	if rec.Header().Get("X-Group") != "yes" {
		t.Error("group middleware did not run")
	}
}

func TestRender(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	comp := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<div>test</div>"))
		return err
	})

	if err := Render(c, comp); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", got)
	}
	if got := rec.Body.String(); got != "<div>test</div>" {
		t.Errorf("body = %q, want <div>test</div>", got)
	}
}
