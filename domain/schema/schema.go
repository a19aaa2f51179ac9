// Package schema validates statistic outputs against declared shapes
// before they leave the site. Validation failures are sanitized: they
// name the field path and the kind of mismatch, never the offending
// value, because the value may be raw site data and the error text can
// cross the federation boundary.
package schema

import (
	"math"
	"sort"
	"strings"
)

// Kind is a bitmask of allowed leaf kinds for a field.
type Kind uint8

const (
	Number Kind = 1 << iota
	Int
	String
	Null
	Object
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{Number, "number"},
	{Int, "int"},
	{String, "string"},
	{Null, "null"},
	{Object, "object"},
}

func (k Kind) String() string {
	var parts []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			parts = append(parts, kn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// FieldSpec declares what a single field may hold.
type FieldSpec struct {
	Kinds  Kind
	Nested *ObjectSpec // required when Kinds includes Object
}

// ObjectSpec declares the shape of a mapping. Fields is a closed set:
// every declared field must be present and no undeclared field is
// allowed. Dynamic instead validates arbitrary keys against one spec,
// for open maps such as categorical value counts.
type ObjectSpec struct {
	Fields  map[string]FieldSpec
	Dynamic *FieldSpec
}

// Field is a convenience constructor for scalar fields.
func Field(kinds Kind) FieldSpec {
	return FieldSpec{Kinds: kinds}
}

// NestedField is a convenience constructor for object fields.
func NestedField(nested *ObjectSpec) FieldSpec {
	return FieldSpec{Kinds: Object, Nested: nested}
}

// Validate checks a raw mapping against a spec. The model name is
// included in errors so callers can tell which statistic failed.
func Validate(model string, raw map[string]any, spec *ObjectSpec) error {
	verr := &ValidationError{Model: model}
	validateObject(raw, spec, "", verr)
	if len(verr.Fields) > 0 {
		sort.Slice(verr.Fields, func(i, j int) bool { return verr.Fields[i].Path < verr.Fields[j].Path })
		return verr
	}
	return nil
}

func validateObject(raw map[string]any, spec *ObjectSpec, path string, verr *ValidationError) {
	if spec.Dynamic != nil {
		for key, val := range raw {
			validateField(val, *spec.Dynamic, joinPath(path, key), verr)
		}
		return
	}
	for name, fieldSpec := range spec.Fields {
		val, present := raw[name]
		if !present {
			verr.add(joinPath(path, name), MismatchMissingField, "field is required")
			continue
		}
		validateField(val, fieldSpec, joinPath(path, name), verr)
	}
	for key := range raw {
		if _, declared := spec.Fields[key]; !declared {
			verr.add(joinPath(path, key), MismatchUnexpectedField, "field is not part of the contract")
		}
	}
}

func validateField(val any, spec FieldSpec, path string, verr *ValidationError) {
	got := kindOf(val)
	if got == Object {
		if spec.Kinds&Object == 0 || spec.Nested == nil {
			verr.add(path, MismatchWrongType, "expected "+spec.Kinds.String()+", got object")
			return
		}
		validateObject(val.(map[string]any), spec.Nested, path, verr)
		return
	}
	// An int satisfies a number field, and a whole-valued float
	// satisfies an int field. JSON decoding turns every number into
	// float64, and re-validating a decoded bundle must succeed.
	if got&spec.Kinds != 0 {
		return
	}
	if got == Int && spec.Kinds&Number != 0 {
		return
	}
	if got == Number && spec.Kinds&Int != 0 {
		if f, ok := asFloat(val); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return
		}
	}
	verr.add(path, MismatchWrongType, "expected "+spec.Kinds.String()+", got "+got.String())
}

func kindOf(val any) Kind {
	switch v := val.(type) {
	case nil:
		return Null
	case string:
		return String
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		_ = v
		return Number
	case map[string]any:
		return Object
	default:
		// Unknown dynamic types fail as "none", which never matches.
		return 0
	}
}

func asFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
