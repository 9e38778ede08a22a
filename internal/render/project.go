package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Logical field names for tax slips. A FieldMap translates them to the
// names of the template's form fields.
const (
	FieldFirstName         = "FirstName"
	FieldLastName          = "LastName"
	FieldSIN               = "SIN"
	FieldYear              = "Year"
	FieldEmploymentIncome  = "EmploymentIncome"
	FieldIncomeTaxDeducted = "IncomeTaxDeducted"
	FieldEmployerName      = "EmployerName"
)

// FieldMap translates logical field names to template field names. Keys
// missing from the map pass through unchanged.
type FieldMap map[string]string

func (m FieldMap) name(logical string) string {
	if n, ok := m[logical]; ok && n != "" {
		return n
	}
	return logical
}

const slip = "form1[0].Page1[0].Slip1[0]."

// DefaultFieldMaps are the field names of the CRA fillable T4 and T4A slips.
var DefaultFieldMaps = map[requests.Kind]FieldMap{
	requests.KindT4: {
		FieldLastName:          slip + "Employee[0].LastName[0].Slip1LastName[0]",
		FieldFirstName:         slip + "Employee[0].FirstName[0].Slip1FirstName[0]",
		FieldSIN:               slip + "Box12[0].Slip1Box12[0]",
		FieldYear:              slip + "Year[0].Slip1Year[0]",
		FieldEmploymentIncome:  slip + "Box14[0].Slip1Box14[0]",
		FieldIncomeTaxDeducted: slip + "Box22[0].Slip1Box22[0]",
		FieldEmployerName:      slip + "EmployersName[0].Slip1EmployersName[0]",
	},
	requests.KindT4A: {
		FieldLastName:          slip + "Employee[0].LastName[0].Slip1LastName[0]",
		FieldFirstName:         slip + "Employee[0].FirstName[0].Slip1FirstName[0]",
		FieldSIN:               slip + "Box12[0].Slip1SIN[0]",
		FieldYear:              slip + "Year[0].Slip1Year[0]",
		FieldEmploymentIncome:  slip + "Line16[0].Slip1Line16[0]",
		FieldIncomeTaxDeducted: slip + "Line22[0].Slip1Line22[0]",
		FieldEmployerName:      slip + "EmployersName[0].Slip1EmployersName[0]",
	},
}

// Projector turns query results into template fields.
type Projector struct {
	maps     map[requests.Kind]FieldMap
	employer string
}

// NewProjector creates a Projector. overrides replace individual entries of
// DefaultFieldMaps per kind.
func NewProjector(employer string, overrides map[requests.Kind]FieldMap) *Projector {
	merged := make(map[requests.Kind]FieldMap, len(DefaultFieldMaps))
	for kind, defaults := range DefaultFieldMaps {
		m := make(FieldMap, len(defaults))
		for k, v := range defaults {
			m[k] = v
		}
		for k, v := range overrides[kind] {
			m[k] = v
		}
		merged[kind] = m
	}
	for kind, o := range overrides {
		if _, ok := merged[kind]; !ok {
			merged[kind] = o
		}
	}
	return &Projector{maps: merged, employer: employer}
}

// Project builds fields for kind using m as the kind's field map and the
// default employer name.
func Project(kind requests.Kind, res records.Result, m FieldMap) (Fields, error) {
	p := &Projector{
		maps:     map[requests.Kind]FieldMap{kind: m},
		employer: DefaultEmployerName,
	}
	return p.Project(kind, res)
}

// FieldMap returns the effective map for kind.
func (p *Projector) FieldMap(kind requests.Kind) FieldMap {
	return p.maps[kind]
}

// Project builds the fields for kind from res.
//
// Payslip fields carry the first period's amounts (never summed) plus
// 1-based per-period fields such as GrossAmount_2 and range totals such as
// GrossTotal. Tax slip fields are keyed by template field name through the
// kind's FieldMap.
func (p *Projector) Project(kind requests.Kind, res records.Result) (Fields, error) {
	switch r := res.(type) {
	case records.PaystubResult:
		if kind != requests.KindPayslip {
			return nil, fmt.Errorf("project: %s cannot use paystub rows", kind)
		}
		return projectPaystubs(r.Rows)
	case records.TaxFormResult:
		if kind != requests.KindT4 && kind != requests.KindT4A {
			return nil, fmt.Errorf("project: %s cannot use a tax slip", kind)
		}
		return p.projectTaxForm(p.maps[kind], r.Row), nil
	}
	return nil, fmt.Errorf("project: unsupported result %T", res)
}

func projectPaystubs(rows []records.PaystubRow) (Fields, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("project: no paystub rows")
	}

	first, last := rows[0], rows[len(rows)-1]
	f := Fields{
		"FullName":       Text(first.FullName),
		"EmployeeNumber": Text(first.EmployeeNumber),
		"PeriodStart":    Date(first.PeriodStart),
		"PeriodEnd":      Date(last.PeriodEnd),
		"GrossAmount":    Money(first.GrossAmount),
		"NetAmount":      Money(first.NetAmount),
		"CPP":            Money(first.CPP),
		"EI":             Money(first.EI),
		"PeriodCount":    Integer(int64(len(rows))),
	}

	var gross, net, cpp, ei decimal.Decimal
	for i, row := range rows {
		n := i + 1
		f[fmt.Sprintf("PeriodStart_%d", n)] = Date(row.PeriodStart)
		f[fmt.Sprintf("PeriodEnd_%d", n)] = Date(row.PeriodEnd)
		f[fmt.Sprintf("GrossAmount_%d", n)] = Money(row.GrossAmount)
		f[fmt.Sprintf("NetAmount_%d", n)] = Money(row.NetAmount)
		f[fmt.Sprintf("CPP_%d", n)] = Money(row.CPP)
		f[fmt.Sprintf("EI_%d", n)] = Money(row.EI)

		gross = gross.Add(row.GrossAmount)
		net = net.Add(row.NetAmount)
		cpp = cpp.Add(row.CPP)
		ei = ei.Add(row.EI)
	}

	f["GrossTotal"] = Money(gross)
	f["NetTotal"] = Money(net)
	f["CPPTotal"] = Money(cpp)
	f["EITotal"] = Money(ei)
	return f, nil
}

func (p *Projector) projectTaxForm(m FieldMap, row records.TaxFormRow) Fields {
	first, last := splitName(row.FullName)
	f := Fields{
		m.name(FieldFirstName):         Text(first),
		m.name(FieldLastName):          Text(last),
		m.name(FieldSIN):               Text(row.SIN),
		m.name(FieldYear):              Integer(int64(row.Year)),
		m.name(FieldEmploymentIncome):  Money(row.EmploymentIncome),
		m.name(FieldIncomeTaxDeducted): Money(row.IncomeTaxDeducted),
	}
	if p.employer != "" {
		f[m.name(FieldEmployerName)] = Text(p.employer)
	}
	return f
}

// splitName returns the first and last whitespace-separated tokens. A
// single-token name is returned as the last name.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	}
	return parts[0], parts[len(parts)-1]
}
