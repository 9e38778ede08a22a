package main

import (
	"context"
	"os"
	"time"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	domain  *infrastructure.Domain
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	domain, err := infra.NewDomain(cfg)
	if err != nil {
		return nil, err
	}

	store, err := infra.NewSessions(&cfg.Sessions)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(cfg, infra, domain, store)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"sessions", cfg.Sessions.Backend,
	)

	return &Server{
		infra:   infra,
		domain:  domain,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
		s.probeTemplates(s.infra.Lifecycle.Context())
	}()

	return nil
}

// probeTemplates logs templates that are missing from the template container.
func (s *Server) probeTemplates(ctx context.Context) {
	statuses, err := s.domain.Documents.Templates(ctx)
	if err != nil {
		s.infra.Logger.Warn("template probe failed", "error", err)
		return
	}
	for _, st := range statuses {
		if !st.Available {
			s.infra.Logger.Warn("template unavailable", "name", st.Name, "key", st.Key, "error", st.Error)
		}
	}
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
