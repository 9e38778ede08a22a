package records

import (
	"github.com/shopspring/decimal"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Result is the data a Query returns. The only implementations are
// PaystubResult and TaxFormResult.
type Result interface {
	result()
}

// PaystubRow is one pay period.
type PaystubRow struct {
	FullName       string          `json:"full_name"`
	EmployeeNumber string          `json:"employee_number"`
	PeriodStart    requests.Date   `json:"period_start"`
	PeriodEnd      requests.Date   `json:"period_end"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	CPP            decimal.Decimal `json:"cpp"`
	EI             decimal.Decimal `json:"ei"`
}

// PaystubResult holds the pay periods in range, ordered by PeriodStart.
type PaystubResult struct {
	Rows []PaystubRow `json:"rows"`
}

func (PaystubResult) result() {}

// TaxFormRow is the annual summary on a T4 or T4A slip.
type TaxFormRow struct {
	FullName          string          `json:"full_name"`
	EmployeeNumber    string          `json:"employee_number"`
	SIN               string          `json:"sin"`
	Year              int             `json:"year"`
	FormType          string          `json:"form_type"`
	EmploymentIncome  decimal.Decimal `json:"employment_income"`
	IncomeTaxDeducted decimal.Decimal `json:"income_tax_deducted"`
}

// TaxFormResult holds the single matching slip.
type TaxFormResult struct {
	Row TaxFormRow `json:"row"`
}

func (TaxFormResult) result() {}
