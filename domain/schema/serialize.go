package schema

import (
	"encoding/json"
	"fmt"

	"stratastats/domain/core"
)

// MarshalSanitized serializes a validated result for transport. Any
// failure is re-reported with the model name only; the underlying
// error text could echo cell values, so it is withheld.
func MarshalSanitized(model string, v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: model %s: underlying detail withheld", core.ErrSerialization, model)
		}
	}()
	data, jsonErr := json.Marshal(v)
	if jsonErr != nil {
		return nil, fmt.Errorf("%w: model %s: underlying detail withheld", core.ErrSerialization, model)
	}
	return data, nil
}

// Validated wraps a computation with post-call schema enforcement, the
// composable equivalent of validating every statistic at its return
// site. The wrapped function's raw output never escapes unvalidated,
// and an internal validator fault surfaces as a sanitized error rather
// than a panic with data in it.
func Validated[T any](model string, spec *ObjectSpec, fn func(T) (map[string]any, error)) func(T) (map[string]any, error) {
	return func(in T) (out map[string]any, err error) {
		defer func() {
			if r := recover(); r != nil {
				out = nil
				err = fmt.Errorf("internal validation failure for model %s: details withheld", model)
			}
		}()
		raw, err := fn(in)
		if err != nil {
			return nil, err
		}
		if verr := Validate(model, raw, spec); verr != nil {
			return nil, core.NewOutputError(model, verr)
		}
		return raw, nil
	}
}
