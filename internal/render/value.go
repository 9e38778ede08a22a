package render

import (
	"maps"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// ValueKind tags the representation held by a Value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindMoney
	KindDate
	KindInteger
)

// Value is a typed field value with a canonical string form.
type Value struct {
	kind    ValueKind
	text    string
	money   decimal.Decimal
	date    requests.Date
	integer int64
}

// Text wraps a string that is written verbatim.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Money wraps an amount written with two decimals and no currency symbol.
func Money(d decimal.Decimal) Value { return Value{kind: KindMoney, money: d} }

// Date wraps a calendar date written as YYYY-MM-DD.
func Date(d requests.Date) Value { return Value{kind: KindDate, date: d} }

// Integer wraps a whole number written in base 10.
func Integer(n int64) Value { return Value{kind: KindInteger, integer: n} }

// Kind reports the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Format returns the string written into a document.
func (v Value) Format() string {
	switch v.kind {
	case KindMoney:
		return v.money.StringFixed(2)
	case KindDate:
		return v.date.String()
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	}
	return v.text
}

func (v Value) String() string { return v.Format() }

// Fields maps template field names to values.
type Fields map[string]Value

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}
