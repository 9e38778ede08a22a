package pipeline

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// State is a position in the request state machine.
type State string

const (
	StateStart             State = "start"
	StateClassified        State = "classified"
	StateAwaitingSelection State = "awaiting_selection"
	StateResolved          State = "resolved"
	StateQueryBuilt        State = "query_built"
	StateDataFetched       State = "data_fetched"
	StateRendered          State = "rendered"
	StatePersisted         State = "persisted"
	StateAborted           State = "aborted"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StatePersisted || s == StateAborted
}

// Stage names carried by StageError.
const (
	StageClassify   = "classify"
	StageResolve    = "resolve"
	StageSelect     = "select"
	StageBuildQuery = "build_query"
	StageFetch      = "fetch"
	StageRender     = "render"
	StagePersist    = "persist"
)

// Run is one request's progress through the pipeline.
type Run struct {
	ID         uuid.UUID
	State      State
	Text       string
	Request    requests.DocumentRequest
	Usage      requests.TokenUsage
	Candidates requests.CandidateSet
	Subject    requests.Subject
	Query      records.Query
	Result     records.Result
	Document   *render.RenderedDocument
	Location   string
	Err        error
	History    []State
	CreatedAt  time.Time
}

func newRun(text string) *Run {
	return &Run{
		ID:        uuid.New(),
		State:     StateStart,
		Text:      text,
		History:   []State{StateStart},
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Run) transition(s State) {
	r.State = s
	r.History = append(r.History, s)
}

// Done reports whether the run reached a terminal state.
func (r *Run) Done() bool {
	return r.State.Terminal()
}

// Suspended reports whether the run is waiting for a selection.
func (r *Run) Suspended() bool {
	return r.State == StateAwaitingSelection
}

// Summary is the single human-readable line describing the failure, or
// empty when the run has not failed.
func (r *Run) Summary() string {
	return requests.Summary(r.Err)
}

// Checkpoint is the serialisable form of a suspended run.
type Checkpoint struct {
	ID         uuid.UUID                `json:"id"`
	State      State                    `json:"state"`
	Text       string                   `json:"text"`
	Request    requests.DocumentRequest `json:"request"`
	Usage      requests.TokenUsage      `json:"usage"`
	Candidates requests.CandidateSet    `json:"candidates"`
	History    []State                  `json:"history"`
	CreatedAt  time.Time                `json:"created_at"`
}

// Checkpoint captures the fields needed to resume a suspended run.
func (r *Run) Checkpoint() Checkpoint {
	return Checkpoint{
		ID:         r.ID,
		State:      r.State,
		Text:       r.Text,
		Request:    r.Request,
		Usage:      r.Usage,
		Candidates: slices.Clone(r.Candidates),
		History:    slices.Clone(r.History),
		CreatedAt:  r.CreatedAt,
	}
}

// Restore rebuilds a run from a checkpoint.
func Restore(cp Checkpoint) *Run {
	return &Run{
		ID:         cp.ID,
		State:      cp.State,
		Text:       cp.Text,
		Request:    cp.Request,
		Usage:      cp.Usage,
		Candidates: slices.Clone(cp.Candidates),
		History:    slices.Clone(cp.History),
		CreatedAt:  cp.CreatedAt,
	}
}
