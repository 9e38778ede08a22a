package api

import (
	"net/http"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, runtime *Runtime, maxBodySize int64, spec http.HandlerFunc) {
	routes.Register(
		mux,
		newRequestHandler(runtime, maxBodySize).routes(),
		newStatusHandler(runtime).routes(),
		routes.Group{
			Routes: []routes.Route{{Method: "GET", Pattern: "/openapi.json", Handler: spec}},
		},
	)
}
