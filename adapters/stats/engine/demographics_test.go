package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratastats/domain/cohort"
	"stratastats/domain/core"
	"stratastats/domain/privacy"
	"stratastats/internal/testkit"
)

func demographicColumns() []string {
	return append([]string{cohort.ColAgeDiagnosis}, cohort.CategoricalDemographics...)
}

func TestDemographics(t *testing.T) {
	table := testkit.MustTable(demographicColumns(), [][]any{
		{50, "male", "positive", "positive"},
		{60, "female", "positive", "positive"},
		{50, "male", "positive", "positive"},
		{60, "female", "positive", "negative"},
		{55, "male", "positive", "negative"},
	})

	eng := New(privacy.Policy{Threshold: 2})
	out, err := eng.demographics(table)
	require.NoError(t, err)

	assert.Equal(t, 55.0, out["Age_mean"])
	assert.Equal(t, 5.0, out["Age_std"])

	counts := out["Sex_counts"].(map[string]any)
	assert.Equal(t, 3, counts["male"])
	assert.Equal(t, 2, counts["female"])

	ratios := out["Sex_proportions"].(map[string]any)
	assert.Equal(t, 0.6, ratios["male"])
	assert.Equal(t, 0.4, ratios["female"])
}

func TestDemographicsMasksPerVariable(t *testing.T) {
	table := testkit.MustTable(demographicColumns(), [][]any{
		{50, "male", "positive", "positive"},
		{60, "female", "positive", "negative"},
		{50, "male", "positive", "positive"},
		{60, "female", "positive", "negative"},
		{55, "male", "positive", "positive"},
	})

	eng := New(privacy.Policy{Threshold: 3})
	out, err := eng.demographics(table)
	require.NoError(t, err)

	// Sex has a group of two, so the whole breakdown is suppressed,
	// including the majority group.
	counts := out["Sex_counts"].(map[string]any)
	assert.Equal(t, "<3", counts["male"])
	assert.Equal(t, "<3", counts["female"])
	ratios := out["Sex_proportions"].(map[string]any)
	assert.Equal(t, "masked", ratios["male"])

	// RF positivity has a single group of five and stays visible.
	rf := out["RF_positivity_counts"].(map[string]any)
	assert.Equal(t, 5, rf["positive"])
}

func TestDemographicsMissingBucket(t *testing.T) {
	table := testkit.MustTable(demographicColumns(), [][]any{
		{50, nil, "positive", "positive"},
		{60, nil, "positive", "positive"},
		{55, "male", "positive", "positive"},
	})

	eng := New(privacy.Policy{Threshold: 1})
	out, err := eng.demographics(table)
	require.NoError(t, err)

	counts := out["Sex_counts"].(map[string]any)
	assert.Equal(t, 2, counts[cohort.MissingCategory])
	assert.Equal(t, 1, counts["male"])
}

func TestDemographicsRequiresColumns(t *testing.T) {
	table := testkit.MustTable([]string{cohort.ColAgeDiagnosis}, nil)

	_, err := NewDefault().demographics(table)
	require.Error(t, err)
	assert.True(t, core.IsSchemaAdherenceError(err))
}
