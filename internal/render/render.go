// Package render turns query results into documents: field projection,
// placeholder substitution in Word templates and PDF form filling.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// RenderedDocument is a generated document ready for storage.
type RenderedDocument struct {
	Name        string   `json:"name"`
	ContentType string   `json:"content_type"`
	Data        []byte   `json:"-"`
	Size        int      `json:"size"`
	Missing     []string `json:"missing,omitempty"`
	Unmatched   []string `json:"unmatched,omitempty"`
}

// Renderer selects the rendering strategy for each document kind.
type Renderer struct {
	docx   DocxRenderer
	form   *FormRenderer
	logger *slog.Logger
}

// New creates a Renderer. A nil engine selects pdfcpu.
func New(engine FormEngine, logger *slog.Logger) *Renderer {
	return &Renderer{
		form:   NewFormRenderer(engine),
		logger: logger.With("system", "render"),
	}
}

// Render fills template with fields. Name is left for the caller to set.
// Unreadable templates produce a *requests.RenderError.
func (r *Renderer) Render(kind requests.Kind, template []byte, fields Fields) (RenderedDocument, error) {
	if len(template) == 0 {
		return RenderedDocument{}, &requests.RenderError{Err: fmt.Errorf("template for %s is empty", kind)}
	}

	doc := RenderedDocument{ContentType: kind.ContentType()}

	switch kind {
	case requests.KindPayslip:
		data, missing, err := r.docx.Render(template, fields)
		if err != nil {
			return RenderedDocument{}, &requests.RenderError{Err: err}
		}
		doc.Data, doc.Missing = data, missing
	case requests.KindT4, requests.KindT4A:
		data, unmatched, err := r.form.Render(template, fields)
		if err != nil {
			return RenderedDocument{}, &requests.RenderError{Err: err}
		}
		doc.Data, doc.Unmatched = data, unmatched
	default:
		return RenderedDocument{}, &requests.RenderError{Err: fmt.Errorf("no renderer for kind %q", kind)}
	}

	doc.Size = len(doc.Data)
	r.logger.Debug("document rendered",
		"kind", kind,
		"size", doc.Size,
		"missing", len(doc.Missing),
		"unmatched", len(doc.Unmatched),
	)
	return doc, nil
}

// Inspect lists the form fields of a PDF template.
func (r *Renderer) Inspect(template []byte) ([]FormField, error) {
	fields, err := r.form.Inspect(template)
	if err != nil {
		return nil, &requests.RenderError{Err: err}
	}
	return fields, nil
}

// OutputName is the deterministic file name for a rendered document.
func OutputName(kind requests.Kind, subject requests.Subject, scope requests.Scope) string {
	prefix := strings.ToLower(string(kind))
	switch s := scope.(type) {
	case requests.PeriodScope:
		return fmt.Sprintf("%s_%s_%s_to_%s%s", prefix, subject.ID, s.Start.Compact(), s.End.Compact(), kind.Extension())
	case requests.YearScope:
		return fmt.Sprintf("%s_%s_%d%s", prefix, subject.ID, s.Year, kind.Extension())
	}
	return prefix + "_" + subject.ID + kind.Extension()
}
