// Package pipeline sequences a document request through classification,
// subject resolution, query building, data fetch, rendering and persistence.
// An ambiguous subject suspends the run until a selection or cancellation
// arrives, so the same flow serves a terminal prompt and an HTTP client.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Pipeline drives runs through the stages. Runs are independent; a Pipeline
// may serve several concurrently.
type Pipeline struct {
	rt      Runtime
	metrics *metrics
	logger  *slog.Logger
}

// New creates a Pipeline over rt.
func New(rt Runtime) *Pipeline {
	logger := rt.Logger.With("system", "pipeline")
	return &Pipeline{
		rt:      rt,
		metrics: newMetrics(rt.Registerer, logger),
		logger:  logger,
	}
}

// Start creates a run for text and advances it until it is terminal or
// awaiting selection.
func (p *Pipeline) Start(ctx context.Context, text string) *Run {
	run := newRun(text)
	p.logger.InfoContext(ctx, "run started", "run_id", run.ID)

	start := time.Now()
	req, usage, err := p.rt.Classifier.Classify(ctx, text)
	p.metrics.observe(StageClassify, start)
	run.Usage = usage
	if err != nil {
		p.abort(ctx, run, StageClassify, err)
		return run
	}
	run.Request = req
	run.transition(StateClassified)
	p.logger.InfoContext(ctx, "request classified",
		"run_id", run.ID,
		"kind", req.Kind(),
		"scope", req.Scope().String(),
		"tokens", usage.Total(),
	)

	start = time.Now()
	subject, err := p.rt.Resolver.Resolve(ctx, req.SubjectHint())
	p.metrics.observe(StageResolve, start)

	var ambiguous *requests.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		run.Candidates = ambiguous.Candidates
		run.transition(StateAwaitingSelection)
		p.metrics.outcome(OutcomeSuspended)
		p.logger.InfoContext(ctx, "run awaiting selection",
			"run_id", run.ID,
			"candidates", len(ambiguous.Candidates),
		)
		return run
	case err != nil:
		p.abort(ctx, run, StageResolve, err)
		return run
	}

	run.Subject = subject
	run.transition(StateResolved)
	p.complete(ctx, run)
	return run
}

// Resume applies the selection index to a suspended run and advances it
// to a terminal state. An out-of-range index aborts the run.
func (p *Pipeline) Resume(ctx context.Context, run *Run, index int) error {
	if !run.Suspended() {
		return fmt.Errorf("resume %s in state %s: %w", run.ID, run.State, ErrNotSuspended)
	}

	subject, err := p.rt.Resolver.ResolveWithSelection(run.Candidates, index)
	if err != nil {
		p.abort(ctx, run, StageSelect, err)
		return nil
	}

	p.logger.InfoContext(ctx, "candidate selected", "run_id", run.ID, "employee_number", subject.ID)
	run.Subject = subject
	run.transition(StateResolved)
	p.complete(ctx, run)
	return nil
}

// Cancel aborts a suspended run. Nothing is persisted.
func (p *Pipeline) Cancel(ctx context.Context, run *Run, reason string) error {
	if !run.Suspended() {
		return fmt.Errorf("cancel %s in state %s: %w", run.ID, run.State, ErrNotSuspended)
	}
	p.abort(ctx, run, StageSelect, &requests.DisambiguationCancelledError{Reason: reason})
	return nil
}

// Execute runs text to completion, asking sel to choose when the subject
// is ambiguous. A selector error cancels the run.
func (p *Pipeline) Execute(ctx context.Context, text string, sel employees.Selector) *Run {
	run := p.Start(ctx, text)
	if !run.Suspended() {
		return run
	}

	index, err := sel.Select(ctx, run.Candidates)
	if err != nil {
		_ = p.Cancel(ctx, run, err.Error())
		return run
	}

	_ = p.Resume(ctx, run, index)
	return run
}

// complete advances a resolved run through the remaining stages.
func (p *Pipeline) complete(ctx context.Context, run *Run) {
	kind := run.Request.Kind()

	query, err := records.BuildQuery(run.Request, run.Subject)
	if err != nil {
		p.abort(ctx, run, StageBuildQuery, err)
		return
	}
	run.Query = query
	run.transition(StateQueryBuilt)

	start := time.Now()
	result, err := p.rt.Records.Fetch(ctx, query)
	p.metrics.observe(StageFetch, start)
	if err != nil {
		p.abort(ctx, run, StageFetch, err)
		return
	}
	run.Result = result
	run.transition(StateDataFetched)

	start = time.Now()
	doc, err := p.render(ctx, run)
	p.metrics.observe(StageRender, start)
	if err != nil {
		p.abort(ctx, run, StageRender, err)
		return
	}
	doc.Name = render.OutputName(kind, run.Subject, run.Request.Scope())
	run.Document = &doc
	run.transition(StateRendered)

	if len(doc.Missing) > 0 {
		p.logger.WarnContext(ctx, "template placeholders without fields",
			"run_id", run.ID,
			"template", kind.TemplateName(),
			"fields", doc.Missing,
		)
	}
	if len(doc.Unmatched) > 0 {
		p.logger.WarnContext(ctx, "fields without template form fields",
			"run_id", run.ID,
			"template", kind.TemplateName(),
			"fields", doc.Unmatched,
		)
	}

	start = time.Now()
	location, err := p.rt.Documents.StoreOutput(ctx, doc.Name, doc.Data, doc.ContentType)
	p.metrics.observe(StagePersist, start)
	if err != nil {
		p.abort(ctx, run, StagePersist, &requests.PersistError{Err: err, Document: run.Document})
		return
	}
	run.Location = location
	run.transition(StatePersisted)
	p.metrics.outcome(OutcomePersisted)

	p.logger.InfoContext(ctx, "document persisted",
		"run_id", run.ID,
		"name", doc.Name,
		"location", location,
		"size", doc.Size,
	)
}

func (p *Pipeline) render(ctx context.Context, run *Run) (render.RenderedDocument, error) {
	kind := run.Request.Kind()

	fields, err := p.rt.Projector.Project(kind, run.Result)
	if err != nil {
		return render.RenderedDocument{}, &requests.RenderError{Err: err}
	}

	template, err := p.rt.Documents.FetchTemplate(ctx, kind.TemplateName())
	if err != nil {
		return render.RenderedDocument{}, &requests.RenderError{Err: err}
	}

	return p.rt.Renderer.Render(kind, template, fields)
}

func (p *Pipeline) abort(ctx context.Context, run *Run, stage string, err error) {
	run.Err = &requests.StageError{Stage: stage, Err: err}
	run.transition(StateAborted)
	p.metrics.outcome(OutcomeAborted)
	p.logger.ErrorContext(ctx, "run aborted",
		"run_id", run.ID,
		"stage", stage,
		"error", err,
	)
}
