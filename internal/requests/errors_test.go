package requests_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

func TestErrorMatching(t *testing.T) {
	cancelled := &requests.StageError{Stage: "resolve", Err: &requests.DisambiguationCancelledError{Reason: "user cancelled"}}
	if !errors.Is(cancelled, requests.ErrDisambiguationCancelled) {
		t.Error("DisambiguationCancelledError should match ErrDisambiguationCancelled")
	}

	noRows := &requests.NotFoundError{Hint: "102938", Err: requests.ErrNoRecords}
	if !errors.Is(fmt.Errorf("fetch: %w", noRows), requests.ErrNoRecords) {
		t.Error("NotFoundError should unwrap to ErrNoRecords")
	}

	var pe *requests.PersistError
	doc := []byte("payload")
	if !errors.As(&requests.StageError{Stage: "persist", Err: &requests.PersistError{Err: errors.New("503"), Document: doc}}, &pe) {
		t.Fatal("errors.As PersistError failed")
	}
	if string(pe.Document.([]byte)) != "payload" {
		t.Error("rendered document should remain reachable from PersistError")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			"classification includes raw output",
			&requests.StageError{Stage: "classify", Err: &requests.ClassificationError{Raw: `{"intent":"ERROR"}`, Reason: "unknown intent"}},
			[]string{"[classify]", "unknown intent", `{"intent":"ERROR"}`},
		},
		{
			"not found",
			&requests.StageError{Stage: "resolve", Err: &requests.NotFoundError{Hint: "Casey"}},
			[]string{"[resolve]", `no employee matches "Casey"`},
		},
		{
			"no records",
			&requests.NotFoundError{Hint: "102938", Err: requests.ErrNoRecords},
			[]string{`no records found for "102938"`},
		},
		{
			"cancelled",
			&requests.StageError{Stage: "resolve", Err: &requests.DisambiguationCancelledError{}},
			[]string{"cancelled during employee selection"},
		},
		{
			"cancelled with reason",
			&requests.StageError{Stage: "select", Err: &requests.DisambiguationCancelledError{Reason: "selection 5 out of range [0, 2)"}},
			[]string{"[select] request cancelled during employee selection: selection 5 out of range [0, 2)"},
		},
		{
			"persist",
			&requests.PersistError{Err: errors.New("timeout")},
			[]string{"persist failed: timeout", "not saved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := requests.Summary(tt.err)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Summary() = %q, missing %q", got, want)
				}
			}
		})
	}

	if requests.Summary(nil) != "" {
		t.Error("Summary(nil) should be empty")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"classification", &requests.ClassificationError{}, http.StatusUnprocessableEntity},
		{"not found", &requests.StageError{Stage: "resolve", Err: &requests.NotFoundError{}}, http.StatusNotFound},
		{"cancelled", &requests.DisambiguationCancelledError{}, http.StatusConflict},
		{"data fetch", &requests.DataFetchError{Err: errors.New("x")}, http.StatusBadGateway},
		{"render", &requests.RenderError{Err: errors.New("x")}, http.StatusInternalServerError},
		{"persist", &requests.PersistError{Err: errors.New("x")}, http.StatusBadGateway},
		{"other", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := requests.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
