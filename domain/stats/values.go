package stats

import "encoding/json"

// The wire contract between sites and the federation aggregator allows
// three shapes of leaf value: plain numbers, privacy-mask sentinels
// (strings), and nulls for statistics that are undefined on the local
// data. The types below carry those unions through the engine without
// ever coercing a masked value back to a number.

// CountValue is an exact count or a privacy-mask sentinel.
type CountValue struct {
	masked   bool
	count    int
	sentinel string
}

// ExactCount creates an unmasked count
func ExactCount(n int) CountValue {
	return CountValue{count: n}
}

// MaskedCount creates a suppressed count carrying the sentinel string
func MaskedCount(sentinel string) CountValue {
	return CountValue{masked: true, sentinel: sentinel}
}

// IsMasked reports whether the count was suppressed
func (v CountValue) IsMasked() bool {
	return v.masked
}

// Count returns the exact count; only meaningful when not masked
func (v CountValue) Count() int {
	return v.count
}

// Wire returns the value as it crosses the site boundary: an int or
// the sentinel string.
func (v CountValue) Wire() any {
	if v.masked {
		return v.sentinel
	}
	return v.count
}

func (v CountValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Wire())
}

// RatioValue is a proportion, a mask sentinel, or null when the
// proportion is undefined (zero total).
type RatioValue struct {
	defined  bool
	masked   bool
	ratio    float64
	sentinel string
}

// Ratio creates a defined proportion
func Ratio(r float64) RatioValue {
	return RatioValue{defined: true, ratio: r}
}

// MaskedRatio creates a suppressed proportion
func MaskedRatio(sentinel string) RatioValue {
	return RatioValue{defined: true, masked: true, sentinel: sentinel}
}

// UndefinedRatio creates a null proportion
func UndefinedRatio() RatioValue {
	return RatioValue{}
}

// IsMasked reports whether the proportion was suppressed
func (v RatioValue) IsMasked() bool {
	return v.masked
}

// Wire returns float64, the sentinel string, or nil.
func (v RatioValue) Wire() any {
	if !v.defined {
		return nil
	}
	if v.masked {
		return v.sentinel
	}
	return v.ratio
}

func (v RatioValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Wire())
}

// FloatValue is a numeric statistic or null when it is undefined on
// the local data (too few observations). JSON has no NaN, so
// undefined always crosses the boundary as null.
type FloatValue struct {
	defined bool
	value   float64
}

// Float creates a defined value
func Float(f float64) FloatValue {
	return FloatValue{defined: true, value: f}
}

// UndefinedFloat creates a null value
func UndefinedFloat() FloatValue {
	return FloatValue{}
}

// IsDefined reports whether the statistic could be computed
func (v FloatValue) IsDefined() bool {
	return v.defined
}

// Value returns the statistic; only meaningful when defined
func (v FloatValue) Value() float64 {
	return v.value
}

// Wire returns float64 or nil.
func (v FloatValue) Wire() any {
	if !v.defined {
		return nil
	}
	return v.value
}

func (v FloatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Wire())
}
