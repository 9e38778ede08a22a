// Package api assembles the HTTP surface of the request pipeline: submitting
// requests, answering or cancelling a pending employee selection, and
// reporting token usage and template availability.
package api

import (
	"fmt"
	"net/http"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/middleware"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, runtime *Runtime) (*module.Module, error) {
	spec, err := newSpec(cfg.Version, cfg.API.BasePath).Handler()
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, runtime, cfg.API.MaxBodySizeBytes(), spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
