package schema

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *ObjectSpec {
	return &ObjectSpec{
		Fields: map[string]FieldSpec{
			"count":  Field(Int | String),
			"mean":   Field(Number | Null),
			"detail": NestedField(&ObjectSpec{Dynamic: &FieldSpec{Kinds: Number}}),
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	raw := map[string]any{
		"count":  12,
		"mean":   nil,
		"detail": map[string]any{"a": 1.5, "b": 2},
	}
	assert.NoError(t, Validate("test_model", raw, testSpec()))

	// A masked count is a string, still valid.
	raw["count"] = "<5"
	raw["mean"] = 3.25
	assert.NoError(t, Validate("test_model", raw, testSpec()))
}

func TestValidateAcceptsDecodedJSON(t *testing.T) {
	// A bundle that went through JSON loses int-ness; whole-valued
	// floats must still satisfy int fields so re-validation of a
	// decoded bundle succeeds.
	data, err := json.Marshal(map[string]any{
		"count":  12,
		"mean":   1.0,
		"detail": map[string]any{},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NoError(t, Validate("test_model", decoded, testSpec()))
}

func TestValidateRejectsShape(t *testing.T) {
	err := Validate("test_model", map[string]any{
		"count": 1.5,
		"extra": "x",
		"detail": map[string]any{
			"a": "not a number",
		},
	}, testSpec())
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "test_model", verr.Model)

	kinds := map[string]MismatchKind{}
	for _, f := range verr.Fields {
		kinds[f.Path] = f.Kind
	}
	assert.Equal(t, MismatchWrongType, kinds["count"])
	assert.Equal(t, MismatchMissingField, kinds["mean"])
	assert.Equal(t, MismatchUnexpectedField, kinds["extra"])
	assert.Equal(t, MismatchWrongType, kinds["detail.a"])
}

func TestValidationErrorIsSanitized(t *testing.T) {
	secret := "patient-birthdate-1953"
	err := Validate("test_model", map[string]any{
		"count":  12,
		"mean":   secret,
		"detail": map[string]any{},
	}, testSpec())
	require.Error(t, err)

	// The message names the field and the mismatch, never the value.
	assert.NotContains(t, err.Error(), secret)
	assert.Contains(t, err.Error(), "mean")
	assert.Contains(t, err.Error(), string(MismatchWrongType))
}

func TestMarshalSanitized(t *testing.T) {
	data, err := MarshalSanitized("test_model", map[string]any{"ok": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":1}`, string(data))

	// NaN cannot be serialized; the failure must not leak the
	// underlying encoder error, which names the value.
	_, err = MarshalSanitized("test_model", map[string]any{"bad": math.NaN()})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "NaN")
	assert.Contains(t, err.Error(), "test_model")
	assert.True(t, strings.Contains(err.Error(), "withheld"))
}

func TestValidatedWrapper(t *testing.T) {
	spec := &ObjectSpec{Fields: map[string]FieldSpec{"n": Field(Int)}}

	good := Validated("wrapped", spec, func(in int) (map[string]any, error) {
		return map[string]any{"n": in}, nil
	})
	out, err := good(7)
	require.NoError(t, err)
	assert.Equal(t, 7, out["n"])

	bad := Validated("wrapped", spec, func(in int) (map[string]any, error) {
		return map[string]any{"n": "oops"}, nil
	})
	_, err = bad(7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrapped")

	panics := Validated("wrapped", spec, func(in int) (map[string]any, error) {
		panic("raw row data in panic text")
	})
	_, err = panics(7)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "raw row data")
}
