package api

import (
	"context"
	"log/slog"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/documents"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/infrastructure"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/usage"
)

// Runner advances pipeline runs.
type Runner interface {
	Start(ctx context.Context, text string) *pipeline.Run
	Resume(ctx context.Context, run *pipeline.Run, index int) error
	Cancel(ctx context.Context, run *pipeline.Run, reason string) error
}

// TemplateLister reports template availability.
type TemplateLister interface {
	Templates(ctx context.Context) ([]documents.TemplateStatus, error)
}

// UsageReporter exposes the running token totals.
type UsageReporter interface {
	Snapshot() usage.Snapshot
}

// Runtime holds the systems the API handlers call.
type Runtime struct {
	Runner    Runner
	Templates TemplateLister
	Sessions  sessions.Store
	Usage     UsageReporter
	Logger    *slog.Logger
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(infra *infrastructure.Infrastructure, domain *infrastructure.Domain, store sessions.Store) *Runtime {
	return &Runtime{
		Runner:    domain.Pipeline,
		Templates: domain.Documents,
		Sessions:  store,
		Usage:     infra.Usage,
		Logger:    infra.Logger.With("module", "api"),
	}
}
