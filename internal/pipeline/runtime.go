package pipeline

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Classifier turns free text into a DocumentRequest.
type Classifier interface {
	Classify(ctx context.Context, text string) (requests.DocumentRequest, requests.TokenUsage, error)
}

// Resolver maps a subject hint to one employee.
type Resolver interface {
	Resolve(ctx context.Context, hint string) (requests.Subject, error)
	ResolveWithSelection(set requests.CandidateSet, index int) (requests.Subject, error)
}

// Projector turns query results into template fields.
type Projector interface {
	Project(kind requests.Kind, res records.Result) (render.Fields, error)
}

// Renderer fills a template.
type Renderer interface {
	Render(kind requests.Kind, template []byte, fields render.Fields) (render.RenderedDocument, error)
}

// Documents reads templates and stores generated output.
type Documents interface {
	FetchTemplate(ctx context.Context, name string) ([]byte, error)
	StoreOutput(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Runtime bundles the collaborators each pipeline stage calls.
// It is constructed by composition code from infrastructure and domain systems.
type Runtime struct {
	Classifier Classifier
	Resolver   Resolver
	Records    records.Store
	Projector  Projector
	Renderer   Renderer
	Documents  Documents
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}
