// Package records builds payroll lookups for a resolved employee and executes
// them against the payroll database.
package records

import (
	"fmt"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Query is a parameterized payroll lookup. The only implementations are
// PaystubQuery and TaxFormQuery.
type Query interface {
	query()
	// Args returns the positional parameters in call order.
	Args() []any
}

// PaystubQuery selects pay periods overlapping [From, To].
type PaystubQuery struct {
	EmployeeNumber string        `json:"employee_number"`
	From           requests.Date `json:"from"`
	To             requests.Date `json:"to"`
}

func (PaystubQuery) query() {}

func (q PaystubQuery) Args() []any {
	return []any{q.EmployeeNumber, q.From.String(), q.To.String()}
}

// TaxFormQuery selects the single tax slip for a year and form type.
type TaxFormQuery struct {
	EmployeeNumber string `json:"employee_number"`
	Year           int    `json:"year"`
	FormType       string `json:"form_type"`
}

func (TaxFormQuery) query() {}

func (q TaxFormQuery) Args() []any {
	return []any{q.EmployeeNumber, q.Year, q.FormType}
}

// BuildQuery shapes the lookup for req against subject. It performs no I/O.
// Payslip lookups key on the subject's payroll number when it has one.
func BuildQuery(req requests.DocumentRequest, subject requests.Subject) (Query, error) {
	if subject.IsZero() {
		return nil, fmt.Errorf("build query: subject is not resolved")
	}

	switch req.Kind() {
	case requests.KindPayslip:
		period, ok := req.Period()
		if !ok {
			return nil, fmt.Errorf("build query: %s request has no period", req.Kind())
		}
		key := subject.ID
		if subject.SecondaryID != "" {
			key = subject.SecondaryID
		}
		return PaystubQuery{EmployeeNumber: key, From: period.Start, To: period.End}, nil

	case requests.KindT4, requests.KindT4A:
		year, ok := req.Year()
		if !ok {
			return nil, fmt.Errorf("build query: %s request has no year", req.Kind())
		}
		return TaxFormQuery{EmployeeNumber: subject.ID, Year: year, FormType: req.Kind().FormType()}, nil
	}

	return nil, fmt.Errorf("build query: unsupported kind %q", req.Kind())
}
