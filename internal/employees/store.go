package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/repository"
)

// Store looks up employees.
type Store interface {
	// FindByNumber returns the employee with the exact number, or ErrNotFound.
	FindByNumber(ctx context.Context, number string) (requests.Subject, error)
	// SearchByName returns employees whose full name contains name,
	// case-insensitively, ordered by employee number.
	SearchByName(ctx context.Context, name string) ([]requests.Subject, error)
}

const (
	findByNumberQuery = `
SELECT employee_number, full_name, COALESCE(payroll_number, '')
FROM public.employees
WHERE employee_number = $1`

	searchByNameQuery = `
SELECT employee_number, full_name, COALESCE(payroll_number, '')
FROM public.employees
WHERE full_name ILIKE $1 ESCAPE '\'
ORDER BY employee_number`
)

type postgres struct {
	db repository.Querier
}

// NewStore creates a Store over the employees table.
func NewStore(db repository.Querier) Store {
	return &postgres{db: db}
}

func scanSubject(s repository.Scanner) (requests.Subject, error) {
	var subject requests.Subject
	err := s.Scan(&subject.ID, &subject.DisplayName, &subject.SecondaryID)
	return subject, err
}

func (p *postgres) FindByNumber(ctx context.Context, number string) (requests.Subject, error) {
	subject, err := repository.QueryOne(ctx, p.db, findByNumberQuery, []any{number}, scanSubject)
	if err != nil {
		return requests.Subject{}, repository.MapError(err, ErrNotFound)
	}
	return subject, nil
}

func (p *postgres) SearchByName(ctx context.Context, name string) ([]requests.Subject, error) {
	subjects, err := repository.QueryMany(ctx, p.db, searchByNameQuery, []any{containsPattern(name)}, scanSubject)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", repository.MapError(err, ErrNotFound))
	}
	return subjects, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(name string) string {
	return "%" + likeEscaper.Replace(name) + "%"
}
