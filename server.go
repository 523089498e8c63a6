package asyncprops

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/sync/singleflight"
)

// Server renders matched routes on the server with their data loaded, and
// embeds the hydration payload so the client's first render needs no
// loading.
//
//	srv := asyncprops.NewServer(router, asyncprops.WithLayout(page))
//	http.Handle("/", srv)
//
// The payload script is only emitted when every loader succeeded; a client
// receiving a page without it falls back to live loading.
type Server struct {
	matcher Matcher
	opts    *options
	group   singleflight.Group

	// OnError is called when matching fails or rendering errors.
	// Customize this to render application error pages.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewServer creates a server resolving request paths with matcher.
func NewServer(matcher Matcher, opts ...Option) *Server {
	s := &Server{
		matcher: matcher,
		opts:    newOptions(opts),
	}

	s.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if IsNotFound(err) || errors.Is(err, ErrEmptyChain) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
	return s
}

// ServeHTTP matches the request path, loads the whole chain and writes the
// rendered document.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chain, err := s.matcher.Match(ctx, r.URL.Path)
	if err != nil {
		s.OnError(w, r, err)
		return
	}
	if len(chain) == 0 {
		s.OnError(w, r, ErrEmptyChain)
		return
	}

	res, loadErr := loadOnServer(ctx, chain, s.opts, &s.group)
	if loadErr != nil {
		s.opts.logger.Error("server load failed", "path", r.URL.Path, "error", loadErr)
	}

	body := Compose(chain, res.Props())
	var script templ.Component = templ.NopComponent
	if loadErr == nil {
		script = ScriptComponent(res.Payload, s.opts.global)
	}

	var page templ.Component
	switch {
	case IsPartial(r):
		page = body
	case s.opts.layout != nil:
		page = s.opts.layout(body, script)
	default:
		page = templ.Join(body, script)
	}

	// Nothing is written until the whole page has rendered.
	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		s.opts.logger.Error("server render failed", "path", r.URL.Path, "error", err)
		s.OnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
