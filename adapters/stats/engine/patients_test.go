package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratastats/domain/cohort"
	"stratastats/domain/privacy"
	"stratastats/internal/testkit"
)

func TestUniquePatientsMasking(t *testing.T) {
	table := testkit.MustTable([]string{cohort.ColPatientID}, [][]any{
		{"P1"}, {"P1"}, {"P2"}, {"P3"},
	})

	eng := New(privacy.Policy{Threshold: 5})
	out, err := eng.uniquePatients(table)
	require.NoError(t, err)
	assert.Equal(t, "<5", out["unique_patients"])

	eng = New(privacy.Policy{Threshold: 3})
	out, err = eng.uniquePatients(table)
	require.NoError(t, err)
	assert.Equal(t, 3, out["unique_patients"])
}

func TestUniquePatientsRequiresColumn(t *testing.T) {
	table := testkit.MustTable([]string{cohort.ColSex}, nil)

	_, err := NewDefault().uniquePatients(table)
	require.Error(t, err)
}

func TestCheckVisitDefinition(t *testing.T) {
	columns := []string{cohort.ColPatientID, cohort.ColVisitMonths, "csDMARD1", "bDMARD", "DAS28"}
	table := testkit.MustTable(columns, [][]any{
		// P1: therapy unchanged (bDMARD missing at both visits counts
		// as unchanged) and no disease activity recorded: invalid.
		{"P1", 0, "mtx", nil, 3.2},
		{"P1", 3, "mtx", nil, nil},
		// P2: csDMARD1 switched, so the second visit carries
		// information even with activity missing.
		{"P2", 0, "mtx", nil, nil},
		{"P2", 3, "ssz", nil, nil},
		// P3: therapy recorded at only the second visit counts as a
		// change.
		{"P3", 0, nil, nil, nil},
		{"P3", 3, "mtx", nil, nil},
		// P4: unchanged therapy but activity present: valid visit.
		{"P4", 0, "mtx", nil, 2.8},
		{"P4", 3, "mtx", nil, 3.1},
	})

	out, err := NewDefault().checkVisitDefinition(table)
	require.NoError(t, err)
	assert.Equal(t, 1, out["invalid_visits"])
}

func TestCheckVisitDefinitionSortsByTime(t *testing.T) {
	columns := []string{cohort.ColPatientID, cohort.ColVisitMonths, "csDMARD1", "DAS28"}
	// Rows arrive out of order; after sorting, the month-6 visit
	// follows month 3 with unchanged therapy and missing activity.
	table := testkit.MustTable(columns, [][]any{
		{"P1", 6, "mtx", nil},
		{"P1", 0, "mtx", 4.0},
		{"P1", 3, "mtx", 3.5},
	})

	out, err := NewDefault().checkVisitDefinition(table)
	require.NoError(t, err)
	assert.Equal(t, 1, out["invalid_visits"])
}

func TestVisitsPerTimePeriod(t *testing.T) {
	columns := []string{cohort.ColPatientID, cohort.ColVisitMonths}
	table := testkit.MustTable(columns, [][]any{
		// P1 has one visit: no rate, excluded from the summary.
		{"P1", 0},
		// P2: 2 visits over 10 months, rate 0.2.
		{"P2", 0},
		{"P2", 10},
		// P3: two visits at the same offset, zero span, no rate.
		{"P3", 5},
		{"P3", 5},
	})

	out, err := NewDefault().visitsPerTimePeriod(table)
	require.NoError(t, err)

	assert.Equal(t, 0.2, out["visit_rate_mean"])
	assert.Equal(t, 0.2, out["visit_rate_median"])
	// Only one defined rate, so the spread is undefined.
	assert.Nil(t, out["visit_rate_std"])
	assert.Equal(t, 3, out["total_patients"])
}

func TestVisitsPerTimePeriodNoRates(t *testing.T) {
	columns := []string{cohort.ColPatientID, cohort.ColVisitMonths}
	table := testkit.MustTable(columns, [][]any{{"P1", 0}})

	out, err := NewDefault().visitsPerTimePeriod(table)
	require.NoError(t, err)
	assert.Nil(t, out["visit_rate_mean"])
	assert.Nil(t, out["visit_rate_std"])
	assert.Nil(t, out["visit_rate_median"])
	assert.Equal(t, 1, out["total_patients"])
}

func TestMissingDataPerVisit(t *testing.T) {
	columns := append([]string{cohort.ColPatientID}, cohort.DiseaseActivityColumns...)
	table := testkit.MustTable(columns, [][]any{
		{"P1", nil, nil, nil, nil, nil, nil, nil, nil},
		{"P1", 3.2, nil, nil, nil, nil, nil, nil, nil},
		{"P2", nil, nil, nil, nil, nil, nil, nil, ""},
	})

	out, err := NewDefault().missingDataPerVisit(table)
	require.NoError(t, err)

	// Blank strings count as missing; row 2 has one real value.
	assert.Equal(t, 2, out["count_all_missing"])
	assert.Equal(t, 3, out["total_visits"])
	assert.Equal(t, 66.67, out["percent_all_missing"])
}

func TestMissingDataPerVisitEmptyTable(t *testing.T) {
	columns := cohort.DiseaseActivityColumns
	table := testkit.MustTable(columns, nil)

	out, err := NewDefault().missingDataPerVisit(table)
	require.NoError(t, err)
	assert.Equal(t, 0, out["count_all_missing"])
	assert.Equal(t, 0.0, out["percent_all_missing"])
}
