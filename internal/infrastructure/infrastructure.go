// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, blob containers, metrics)
// and composes the request pipeline from them for the CLI and the server.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/documents"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/intent"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/llm"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/usage"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/database"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/lifecycle"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/storage"
)

// Infrastructure holds the core systems shared by the CLI and the server.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Database  database.System
	Templates storage.System
	Output    storage.System
	Usage     *usage.Accountant
}

// New creates an Infrastructure from the application configuration, logging
// to w. It initializes all systems but does not start them; call Start
// separately.
func New(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()

	logger := cfg.NewLogger(w)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	client, err := storage.NewClient(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	templates, err := storage.New(client, storage.Options{
		Container: cfg.Storage.TemplateContainer,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("template storage init failed: %w", err)
	}

	output, err := storage.New(client, storage.Options{
		Container: cfg.Storage.OutputContainer,
		Create:    true,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("output storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Registry:  reg,
		Database:  db,
		Templates: templates,
		Output:    output,
		Usage:     usage.New(reg, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Templates.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("template storage start failed: %w", err)
	}
	if err := i.Output.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("output storage start failed: %w", err)
	}
	return nil
}

// Domain is the composed request pipeline and the stores it reads and writes.
type Domain struct {
	Pipeline  *pipeline.Pipeline
	Documents *documents.Store
}

// NewDomain wires the classifier, resolver, records, renderer and document
// store over the infrastructure systems.
func (i *Infrastructure) NewDomain(cfg *config.Config) (*Domain, error) {
	model, err := llm.New(&cfg.LLM, i.Logger)
	if err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	classifier := intent.New(model, i.Usage, intent.Options{
		CurrentEmployee: cfg.Pipeline.CurrentEmployee,
	}, i.Logger)

	conn := i.Database.Connection()

	resolver, err := employees.NewResolver(employees.NewStore(conn), &cfg.Resolver, i.Logger)
	if err != nil {
		return nil, fmt.Errorf("resolver init failed: %w", err)
	}

	docs := documents.New(i.Templates, i.Output, &cfg.Documents, i.Logger)

	p := pipeline.New(pipeline.Runtime{
		Classifier: classifier,
		Resolver:   resolver,
		Records:    records.NewRetryingStore(records.NewStore(conn), &cfg.Records.Retry, i.Logger),
		Projector:  render.NewProjector(cfg.Render.EmployerName, cfg.Render.Overrides()),
		Renderer:   render.New(nil, i.Logger),
		Documents:  docs,
		Registerer: i.Registry,
		Logger:     i.Logger,
	})

	return &Domain{Pipeline: p, Documents: docs}, nil
}

// NewSessions creates the suspended-run store selected by cfg. A Redis
// backend is registered with the lifecycle coordinator.
func (i *Infrastructure) NewSessions(cfg *sessions.Config) (sessions.Store, error) {
	switch cfg.Backend {
	case sessions.BackendRedis:
		store := sessions.NewRedis(sessions.NewRedisClient(cfg), cfg, i.Logger)
		if err := store.Start(i.Lifecycle); err != nil {
			return nil, fmt.Errorf("session store start failed: %w", err)
		}
		return store, nil
	default:
		return sessions.NewMemory(cfg.TTLDuration()), nil
	}
}
