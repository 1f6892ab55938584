package tableview

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Kind is the type of a displayable cell value.
type Kind int

// Value kinds.
const (
	KindString Kind = iota
	KindNumber
)

// Value is a displayable scalar read from a record: a string or a number.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String wraps a string cell value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int wraps an integer cell value.
func Int(n int) Value {
	return Value{kind: KindNumber, num: float64(n)}
}

// Float wraps a floating point cell value.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// Number returns the numeric value, or 0 for strings.
func (v Value) Number() float64 {
	return v.num
}

// String renders the value for display.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// compareValues orders numbers numerically, strings by their case-folded
// form, and numbers before strings.
func compareValues(a, b Value, fold cases.Caser) int {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case a.kind == KindNumber:
		return -1
	case b.kind == KindNumber:
		return 1
	}
	return strings.Compare(fold.String(a.str), fold.String(b.str))
}
