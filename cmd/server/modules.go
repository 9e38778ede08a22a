package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/api"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/infrastructure"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/middleware"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	domain *infrastructure.Domain,
	store sessions.Store,
) (*Modules, error) {
	metrics, err := middleware.NewMetrics(infra.Registry, "hrdocs")
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, api.NewRuntime(infra, domain, store))
	if err != nil {
		return nil, err
	}
	apiModule.Use(metrics.Handler())
	apiModule.Use(middleware.Recover(infra.Logger))

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	router.Handle("GET /metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))

	return router
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
