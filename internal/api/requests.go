package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/handlers"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/routes"
)

// CancelReason is recorded on runs cancelled through the API.
const CancelReason = "cancelled by client"

type submitRequest struct {
	Text string `json:"text"`
}

type selectionRequest struct {
	Index *int `json:"index"`
}

type runResponse struct {
	ID         uuid.UUID                 `json:"id"`
	State      pipeline.State            `json:"state"`
	Request    *requests.DocumentRequest `json:"request,omitempty"`
	Usage      requests.TokenUsage       `json:"usage"`
	Candidates requests.CandidateSet     `json:"candidates,omitempty"`
	Subject    *requests.Subject         `json:"subject,omitempty"`
	Document   *render.RenderedDocument  `json:"document,omitempty"`
	Location   string                    `json:"location,omitempty"`
	Error      string                    `json:"error,omitempty"`
	Stage      string                    `json:"stage,omitempty"`
	History    []pipeline.State          `json:"history"`
}

func newRunResponse(run *pipeline.Run) runResponse {
	resp := runResponse{
		ID:       run.ID,
		State:    run.State,
		Usage:    run.Usage,
		Document: run.Document,
		Location: run.Location,
		Error:    run.Summary(),
		History:  run.History,
	}
	if !run.Request.IsZero() {
		req := run.Request
		resp.Request = &req
	}
	if run.Suspended() {
		resp.Candidates = run.Candidates
	}
	if !run.Subject.IsZero() {
		subject := run.Subject
		resp.Subject = &subject
	}

	var stage *requests.StageError
	if errors.As(run.Err, &stage) {
		resp.Stage = stage.Stage
	}
	return resp
}

type requestHandler struct {
	runner      Runner
	sessions    sessions.Store
	logger      *slog.Logger
	maxBodySize int64
}

func newRequestHandler(rt *Runtime, maxBodySize int64) *requestHandler {
	return &requestHandler{
		runner:      rt.Runner,
		sessions:    rt.Sessions,
		logger:      rt.Logger.With("handler", "requests"),
		maxBodySize: maxBodySize,
	}
}

func (h *requestHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/requests",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.submit},
			{Method: "POST", Pattern: "/{id}/selection", Handler: h.selection},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.cancel},
		},
	}
}

func (h *requestHandler) submit(w http.ResponseWriter, r *http.Request) {
	body, err := handlers.DecodeJSON[submitRequest](w, r, h.maxBodySize)
	if err != nil {
		h.respondDecodeError(w, err)
		return
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("text is required"))
		return
	}

	run := h.runner.Start(r.Context(), text)
	if run.Suspended() {
		if err := h.sessions.Save(r.Context(), run.Checkpoint()); err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError,
				fmt.Errorf("save suspended run: %w", err))
			return
		}
		handlers.RespondJSON(w, http.StatusAccepted, newRunResponse(run))
		return
	}

	h.respondRun(w, run)
}

func (h *requestHandler) selection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	body, err := handlers.DecodeJSON[selectionRequest](w, r, h.maxBodySize)
	if err != nil {
		h.respondDecodeError(w, err)
		return
	}
	if body.Index == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("index is required"))
		return
	}

	run, ok := h.take(w, r, id)
	if !ok {
		return
	}

	if err := h.runner.Resume(r.Context(), run, *body.Index); err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	h.respondRun(w, run)
}

func (h *requestHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	run, ok := h.take(w, r, id)
	if !ok {
		return
	}

	if err := h.runner.Cancel(r.Context(), run, CancelReason); err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, newRunResponse(run))
}

// take removes the suspended run from the store, so concurrent selections
// for the same run cannot both resume it.
func (h *requestHandler) take(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*pipeline.Run, bool) {
	cp, err := h.sessions.Take(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), fmt.Errorf("run %s: %w", id, err))
		return nil, false
	}
	return pipeline.Restore(cp), true
}

func (h *requestHandler) respondRun(w http.ResponseWriter, run *pipeline.Run) {
	if run.State == pipeline.StateAborted {
		status := requests.MapHTTPStatus(run.Err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("run aborted", "run_id", run.ID, "status", status, "error", run.Err)
		} else {
			h.logger.Warn("run aborted", "run_id", run.ID, "status", status, "error", run.Err)
		}
		handlers.RespondJSON(w, status, newRunResponse(run))
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, newRunResponse(run))
}

func (h *requestHandler) respondDecodeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, handlers.ErrBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	handlers.RespondError(w, h.logger, status, err)
}
