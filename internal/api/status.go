package api

import (
	"log/slog"
	"net/http"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/documents"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/handlers"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/routes"
)

type statusHandler struct {
	usage     UsageReporter
	templates TemplateLister
	logger    *slog.Logger
}

func newStatusHandler(rt *Runtime) *statusHandler {
	return &statusHandler{
		usage:     rt.Usage,
		templates: rt.Templates,
		logger:    rt.Logger.With("handler", "status"),
	}
}

func (h *statusHandler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/usage", Handler: h.tokens},
			{Method: "GET", Pattern: "/templates", Handler: h.listTemplates},
		},
	}
}

func (h *statusHandler) tokens(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.usage.Snapshot())
}

func (h *statusHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.templates.Templates(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, statuses)
}
