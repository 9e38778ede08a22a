package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/repository"
)

// Store executes payroll queries.
//
// Fetch returns *requests.NotFoundError wrapping requests.ErrNoRecords when
// the subject has no rows for the scope, and *requests.DataFetchError for any
// query failure.
type Store interface {
	Fetch(ctx context.Context, q Query) (Result, error)
}

const (
	paystubQuery = `
SELECT full_name, employee_number, period_start, period_end, gross_amount, net_amount, cpp, ei
FROM public.get_paystub_for_range($1, $2::date, $3::date)`

	taxFormQuery = `
SELECT full_name, employee_number, sin, tax_year, form_type, employment_income, income_tax_deducted
FROM public.get_tax_form_data($1, $2, $3)`
)

type postgres struct {
	db repository.Querier
}

// NewStore creates a Store backed by the payroll stored functions.
func NewStore(db repository.Querier) Store {
	return &postgres{db: db}
}

func (p *postgres) Fetch(ctx context.Context, q Query) (Result, error) {
	switch q := q.(type) {
	case PaystubQuery:
		return p.paystubs(ctx, q)
	case TaxFormQuery:
		return p.taxForm(ctx, q)
	}
	return nil, &requests.DataFetchError{Err: fmt.Errorf("unsupported query %T", q)}
}

func scanPaystub(s repository.Scanner) (PaystubRow, error) {
	var (
		r          PaystubRow
		start, end time.Time
	)
	err := s.Scan(&r.FullName, &r.EmployeeNumber, &start, &end, &r.GrossAmount, &r.NetAmount, &r.CPP, &r.EI)
	r.PeriodStart, r.PeriodEnd = requests.DateOf(start), requests.DateOf(end)
	return r, err
}

func scanTaxForm(s repository.Scanner) (TaxFormRow, error) {
	var r TaxFormRow
	err := s.Scan(&r.FullName, &r.EmployeeNumber, &r.SIN, &r.Year, &r.FormType, &r.EmploymentIncome, &r.IncomeTaxDeducted)
	return r, err
}

func (p *postgres) paystubs(ctx context.Context, q PaystubQuery) (Result, error) {
	rows, err := repository.QueryMany(ctx, p.db, paystubQuery, q.Args(), scanPaystub)
	if err != nil {
		return nil, &requests.DataFetchError{Err: repository.MapError(err, requests.ErrNoRecords)}
	}
	if len(rows) == 0 {
		return nil, &requests.NotFoundError{Hint: q.EmployeeNumber, Err: requests.ErrNoRecords}
	}
	return PaystubResult{Rows: rows}, nil
}

func (p *postgres) taxForm(ctx context.Context, q TaxFormQuery) (Result, error) {
	row, err := repository.QueryOne(ctx, p.db, taxFormQuery, q.Args(), scanTaxForm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &requests.NotFoundError{Hint: q.EmployeeNumber, Err: requests.ErrNoRecords}
	}
	if err != nil {
		return nil, &requests.DataFetchError{Err: repository.MapError(err, requests.ErrNoRecords)}
	}
	return TaxFormResult{Row: row}, nil
}
