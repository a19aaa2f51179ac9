package cohort

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the cell union.
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
)

// Value is a single table cell: missing, a number, or free text.
// Values are immutable; the engine never writes back into a table.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// MissingValue creates an absent cell
func MissingValue() Value {
	return Value{kind: KindMissing}
}

// NumberValue creates a numeric cell
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// TextValue creates a textual cell
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the cell kind
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsMissing reports whether the cell is absent
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// IsBlank reports whether the cell is absent or an empty string.
// Clinical exports frequently carry "" where a value was never
// recorded, so blank and missing are interchangeable for
// missing-data checks.
func (v Value) IsBlank() bool {
	return v.kind == KindMissing || (v.kind == KindText && v.text == "")
}

// Number coerces the cell to a float64. Text cells parse if they hold
// a numeric literal; missing and non-numeric text report false.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal compares two cells. Missing never equals anything, including
// another missing cell; callers that want missing==missing semantics
// must check IsMissing themselves.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindText:
		return v.text == other.text
	default:
		return false
	}
}

// MissingCategory is the bucket label used when a categorical cell is
// absent. Missing observations are a category of their own in
// demographic breakdowns.
const MissingCategory = "missing"

// Label renders the cell as a categorical bucket key.
func (v Value) Label() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		if v.text == "" {
			return MissingCategory
		}
		return v.text
	default:
		return MissingCategory
	}
}
