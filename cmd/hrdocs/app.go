package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/infrastructure"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
)

// executor runs one request to completion.
type executor interface {
	Execute(ctx context.Context, text string, sel employees.Selector) *pipeline.Run
}

// app is the started infrastructure behind a single CLI invocation.
type app struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return &app{cfg: cfg, infra: infra}, nil
}

func (a *app) close() {
	if err := a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration()); err != nil {
		a.infra.Logger.Error("shutdown failed", "error", err)
	}
}

func printRun(w io.Writer, run *pipeline.Run) {
	switch {
	case run.State == pipeline.StatePersisted:
		fmt.Fprintf(w, "Document generated: %s\n", run.Document.Name)
		fmt.Fprintf(w, "Saved to: %s\n", run.Location)
		if len(run.Document.Missing) > 0 {
			fmt.Fprintf(w, "Warning: no value for placeholders %v\n", run.Document.Missing)
		}
	case run.Err != nil:
		fmt.Fprintf(w, "Request failed: %s\n", run.Summary())
	default:
		fmt.Fprintf(w, "Request stopped in state %s\n", run.State)
	}

	u := run.Usage
	fmt.Fprintf(w, "Tokens: %d prompt, %d completion, %d total\n", u.PromptTokens, u.CompletionTokens, u.Total())
}
