// Package requests defines the typed values that flow through the document
// request pipeline: the classified DocumentRequest, resolved Subjects,
// candidate sets for disambiguation, and model token usage.
package requests

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Kind identifies the document family a request asks for.
type Kind string

const (
	KindPayslip Kind = "PAYSLIP"
	KindT4      Kind = "T4"
	KindT4A     Kind = "T4A"
)

const (
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePDF  = "application/pdf"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindPayslip, KindT4, KindT4A}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown document kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// RequiresPeriod reports whether the kind is scoped by a date range rather
// than a tax year.
func (k Kind) RequiresPeriod() bool {
	return k == KindPayslip
}

// FormType is the tax form discriminator passed to the tax lookup.
// It is empty for payslips.
func (k Kind) FormType() string {
	switch k {
	case KindT4, KindT4A:
		return string(k)
	}
	return ""
}

// TemplateName is the logical template identifier for the kind.
func (k Kind) TemplateName() string {
	switch k {
	case KindPayslip:
		return "payslip_template"
	case KindT4:
		return "T4_template"
	case KindT4A:
		return "T4A_template"
	}
	return ""
}

// ContentType is the MIME type of documents rendered for the kind.
func (k Kind) ContentType() string {
	if k == KindPayslip {
		return contentTypeDocx
	}
	return contentTypePDF
}

// Extension is the file extension, with leading dot, of rendered documents.
func (k Kind) Extension() string {
	if k == KindPayslip {
		return ".docx"
	}
	return ".pdf"
}

// Scope bounds the data a request asks for. The only implementations are
// PeriodScope and YearScope.
type Scope interface {
	scope()
	String() string
}

// PeriodScope is an inclusive date range.
type PeriodScope struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func (PeriodScope) scope() {}

func (p PeriodScope) String() string {
	return p.Start.String() + ".." + p.End.String()
}

// YearScope is a single tax year.
type YearScope struct {
	Year int `json:"year"`
}

func (YearScope) scope() {}

func (y YearScope) String() string {
	return fmt.Sprintf("%d", y.Year)
}

const (
	minYear = 1900
	maxYear = 9999
)

// DocumentRequest is the immutable, classified form of a free-text request.
type DocumentRequest struct {
	kind        Kind
	subjectHint string
	scope       Scope
}

// NewDocumentRequest validates that scope matches the kind and that the hint
// is non-empty. The hint is trimmed of surrounding whitespace.
func NewDocumentRequest(kind Kind, hint string, scope Scope) (DocumentRequest, error) {
	if !kind.Valid() {
		return DocumentRequest{}, fmt.Errorf("unknown document kind %q", kind)
	}

	hint = strings.TrimSpace(hint)
	if hint == "" {
		return DocumentRequest{}, fmt.Errorf("subject hint required")
	}

	switch s := scope.(type) {
	case PeriodScope:
		if !kind.RequiresPeriod() {
			return DocumentRequest{}, fmt.Errorf("%s requires a tax year, got a period", kind)
		}
		if s.Start.IsZero() || s.End.IsZero() {
			return DocumentRequest{}, fmt.Errorf("period requires both start and end dates")
		}
		if s.End.Before(s.Start) {
			return DocumentRequest{}, fmt.Errorf("period start %s is after end %s", s.Start, s.End)
		}
	case YearScope:
		if kind.RequiresPeriod() {
			return DocumentRequest{}, fmt.Errorf("%s requires a period, got a tax year", kind)
		}
		if s.Year < minYear || s.Year > maxYear {
			return DocumentRequest{}, fmt.Errorf("tax year %d out of range", s.Year)
		}
	default:
		return DocumentRequest{}, fmt.Errorf("scope required")
	}

	return DocumentRequest{kind: kind, subjectHint: hint, scope: scope}, nil
}

func (r DocumentRequest) Kind() Kind          { return r.kind }
func (r DocumentRequest) SubjectHint() string { return r.subjectHint }
func (r DocumentRequest) Scope() Scope        { return r.scope }

// Period returns the request's period when it is period-scoped.
func (r DocumentRequest) Period() (PeriodScope, bool) {
	p, ok := r.scope.(PeriodScope)
	return p, ok
}

// Year returns the request's tax year when it is year-scoped.
func (r DocumentRequest) Year() (int, bool) {
	y, ok := r.scope.(YearScope)
	return y.Year, ok
}

// IsZero reports whether r was never constructed.
func (r DocumentRequest) IsZero() bool {
	return r.kind == ""
}

type documentRequestJSON struct {
	Kind        Kind   `json:"kind"`
	SubjectHint string `json:"subject_hint"`
	From        *Date  `json:"from,omitempty"`
	To          *Date  `json:"to,omitempty"`
	Year        int    `json:"year,omitempty"`
}

func (r DocumentRequest) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}

	out := documentRequestJSON{Kind: r.kind, SubjectHint: r.subjectHint}
	switch s := r.scope.(type) {
	case PeriodScope:
		out.From, out.To = &s.Start, &s.End
	case YearScope:
		out.Year = s.Year
	}
	return json.Marshal(out)
}

func (r *DocumentRequest) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = DocumentRequest{}
		return nil
	}

	var in documentRequestJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var scope Scope
	if in.Kind.RequiresPeriod() {
		var p PeriodScope
		if in.From != nil {
			p.Start = *in.From
		}
		if in.To != nil {
			p.End = *in.To
		}
		scope = p
	} else {
		scope = YearScope{Year: in.Year}
	}

	parsed, err := NewDocumentRequest(in.Kind, in.SubjectHint, scope)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Subject is a resolved employee.
type Subject struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	SecondaryID string `json:"secondary_id,omitempty"`
}

// IsZero reports whether s was never resolved.
func (s Subject) IsZero() bool {
	return s.ID == ""
}

// CandidateSet is a non-empty, id-ordered list of subjects that match an
// ambiguous hint.
type CandidateSet []Subject

// NewCandidateSet copies subjects and orders them by ID. Numeric IDs compare
// by numeric value; other IDs compare lexically.
func NewCandidateSet(subjects []Subject) (CandidateSet, error) {
	if len(subjects) == 0 {
		return nil, fmt.Errorf("candidate set must not be empty")
	}

	set := slices.Clone(subjects)
	slices.SortStableFunc(set, func(a, b Subject) int {
		return compareIDs(a.ID, b.ID)
	})
	return CandidateSet(set), nil
}

// Len returns the number of candidates.
func (c CandidateSet) Len() int {
	return len(c)
}

// At returns the candidate at index, or false when index is out of range.
func (c CandidateSet) At(index int) (Subject, bool) {
	if index < 0 || index >= len(c) {
		return Subject{}, false
	}
	return c[index], true
}

func compareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TokenUsage counts the tokens a single model call consumed.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Total is the sum of prompt and completion tokens.
func (u TokenUsage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// Add returns the element-wise sum of u and o.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
	}
}
