// Package module mounts prefix-scoped HTTP handlers (such as the /api surface)
// onto a top-level router alongside plain operational endpoints.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/middleware"
)

// Module serves a single-level path prefix. Requests reach the inner handler
// with the prefix removed and pass through the module's own middleware stack.
type Module struct {
	prefix     string
	inner      http.Handler
	middleware middleware.System
}

// New creates a Module for prefix (e.g. "/api"). It panics on an empty,
// relative, or multi-level prefix since that is a wiring mistake.
func New(prefix string, inner http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		inner:      inner,
		middleware: middleware.New(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// ServeHTTP strips the prefix and dispatches through the middleware stack.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.middleware.Apply(m.inner).ServeHTTP(w, stripPrefix(req, m.prefix))
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	clone := req.Clone(req.Context())
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
