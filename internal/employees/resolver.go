// Package employees resolves the subject of a document request to a single
// employee, surfacing duplicate-name matches for disambiguation.
package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Resolver maps subject hints to employees.
type Resolver struct {
	store  Store
	number *regexp.Regexp
	logger *slog.Logger
}

// NewResolver creates a Resolver. cfg must be finalized.
func NewResolver(store Store, cfg *Config, logger *slog.Logger) (*Resolver, error) {
	pattern := cfg.NumberPattern
	if pattern == "" {
		pattern = DefaultNumberPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile number pattern: %w", err)
	}

	return &Resolver{
		store:  store,
		number: re,
		logger: logger.With("system", "employees"),
	}, nil
}

// IsEmployeeNumber reports whether hint has the employee number format.
func (r *Resolver) IsEmployeeNumber(hint string) bool {
	return r.number.MatchString(strings.TrimSpace(hint))
}

// Resolve returns the single employee hint identifies.
//
// A hint in employee number format is looked up directly and never yields
// candidates. Any other hint is a name search: no match returns
// *requests.NotFoundError, several matches return *requests.AmbiguousError
// with the candidates ordered by employee number. Store failures return
// *requests.DataFetchError.
func (r *Resolver) Resolve(ctx context.Context, hint string) (requests.Subject, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return requests.Subject{}, &requests.NotFoundError{Hint: hint}
	}

	if r.IsEmployeeNumber(hint) {
		subject, err := r.store.FindByNumber(ctx, hint)
		if errors.Is(err, ErrNotFound) {
			return requests.Subject{}, &requests.NotFoundError{Hint: hint, Err: err}
		}
		if err != nil {
			return requests.Subject{}, &requests.DataFetchError{Err: err}
		}
		r.logger.InfoContext(ctx, "subject resolved by number", "employee_number", subject.ID)
		return subject, nil
	}

	matches, err := r.store.SearchByName(ctx, hint)
	if err != nil {
		return requests.Subject{}, &requests.DataFetchError{Err: err}
	}

	switch len(matches) {
	case 0:
		return requests.Subject{}, &requests.NotFoundError{Hint: hint}
	case 1:
		r.logger.InfoContext(ctx, "subject resolved by name", "employee_number", matches[0].ID)
		return matches[0], nil
	}

	candidates, err := requests.NewCandidateSet(matches)
	if err != nil {
		return requests.Subject{}, err
	}
	r.logger.InfoContext(ctx, "subject is ambiguous", "hint", hint, "candidates", len(candidates))
	return requests.Subject{}, &requests.AmbiguousError{Hint: hint, Candidates: candidates}
}

// ResolveWithSelection returns the candidate at index, or a
// *requests.DisambiguationCancelledError when index is out of range.
func (r *Resolver) ResolveWithSelection(set requests.CandidateSet, index int) (requests.Subject, error) {
	subject, ok := set.At(index)
	if !ok {
		return requests.Subject{}, &requests.DisambiguationCancelledError{
			Reason: fmt.Sprintf("selection %d out of range [0, %d)", index, set.Len()),
		}
	}
	return subject, nil
}
