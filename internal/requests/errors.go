package requests

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoRecords indicates a resolved subject has no data for the requested scope.
	ErrNoRecords = errors.New("no records for requested scope")
	// ErrDisambiguationCancelled is matched by every DisambiguationCancelledError.
	ErrDisambiguationCancelled = errors.New("disambiguation cancelled")
)

// ClassificationError reports model output that could not be turned into a
// DocumentRequest. Raw holds the model's reply verbatim.
type ClassificationError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Reason == "" {
		return "request could not be classified"
	}
	return "request could not be classified: " + e.Reason
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// NotFoundError reports that no subject matches Hint, or that a resolved
// subject has no records (then Err is ErrNoRecords).
type NotFoundError struct {
	Hint string
	Err  error
}

func (e *NotFoundError) Error() string {
	if errors.Is(e.Err, ErrNoRecords) {
		return fmt.Sprintf("no records found for %q", e.Hint)
	}
	return fmt.Sprintf("no employee matches %q", e.Hint)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AmbiguousError carries the candidates for a hint that matched several
// subjects. It suspends a run rather than failing it.
type AmbiguousError struct {
	Hint       string
	Candidates CandidateSet
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d employees match %q", len(e.Candidates), e.Hint)
}

// DisambiguationCancelledError reports a cancelled or invalid selection.
type DisambiguationCancelledError struct {
	Reason string
}

func (e *DisambiguationCancelledError) Error() string {
	if e.Reason == "" {
		return ErrDisambiguationCancelled.Error()
	}
	return ErrDisambiguationCancelled.Error() + ": " + e.Reason
}

func (e *DisambiguationCancelledError) Is(target error) bool {
	return target == ErrDisambiguationCancelled
}

// DataFetchError reports a failed store query.
type DataFetchError struct {
	Err error
}

func (e *DataFetchError) Error() string { return "data fetch failed: " + e.Err.Error() }
func (e *DataFetchError) Unwrap() error { return e.Err }

// RenderError reports an unreadable or corrupt template.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render failed: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// PersistError reports a failed upload. The rendered document stays
// available on Document so it is not lost.
type PersistError struct {
	Err      error
	Document any
}

func (e *PersistError) Error() string { return "persist failed: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// StageError names the pipeline stage an error originated in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Summary renders err as the single human-readable line shown to users.
// Classification failures include the raw model output.
func Summary(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	var stage *StageError
	if errors.As(err, &stage) {
		fmt.Fprintf(&b, "[%s] ", stage.Stage)
	}

	var ce *ClassificationError
	var nf *NotFoundError
	var dc *DisambiguationCancelledError
	var df *DataFetchError
	var re *RenderError
	var pe *PersistError

	switch {
	case errors.As(err, &ce):
		b.WriteString(ce.Error())
		if raw := strings.TrimSpace(ce.Raw); raw != "" {
			fmt.Fprintf(&b, " (model output: %s)", raw)
		}
	case errors.As(err, &nf):
		b.WriteString(nf.Error())
	case errors.As(err, &dc):
		b.WriteString("request cancelled during employee selection")
		if dc.Reason != "" {
			b.WriteString(": " + dc.Reason)
		}
	case errors.As(err, &df):
		b.WriteString(df.Error())
	case errors.As(err, &re):
		b.WriteString(re.Error())
	case errors.As(err, &pe):
		b.WriteString(pe.Error() + " (document was generated but not saved)")
	default:
		b.WriteString(err.Error())
	}

	return b.String()
}

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var (
		ce *ClassificationError
		nf *NotFoundError
		df *DataFetchError
		re *RenderError
		pe *PersistError
	)

	switch {
	case errors.As(err, &ce):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, ErrDisambiguationCancelled):
		return http.StatusConflict
	case errors.As(err, &df), errors.As(err, &pe):
		return http.StatusBadGateway
	case errors.As(err, &re):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
