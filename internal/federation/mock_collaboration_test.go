package federation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratastats/adapters/stats/engine"
	"stratastats/domain/cohort"
	"stratastats/domain/stats"
	"stratastats/internal/testkit"
)

type staticSource struct {
	table *cohort.Table
	err   error
}

func (s staticSource) ReadTable() (*cohort.Table, error) {
	return s.table, s.err
}

func siteSource(seed int64) staticSource {
	opts := testkit.DefaultCohortOptions()
	opts.Seed = seed
	return staticSource{table: testkit.GenerateCohort(opts)}
}

func TestRunAll(t *testing.T) {
	collab := NewMockCollaboration(engine.NewDefault(), nil)
	require.NoError(t, collab.RegisterSite("clinic-a", siteSource(1)))
	require.NoError(t, collab.RegisterSite("clinic-b", siteSource(2)))
	require.NoError(t, collab.RegisterSite("clinic-c", siteSource(3)))

	results, err := collab.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, name := range []string{"clinic-a", "clinic-b", "clinic-c"} {
		result, ok := results[name]
		require.True(t, ok, "missing result for %s", name)
		assert.Equal(t, name, result.Site)
		assert.Len(t, result.Bundle, len(stats.BundleKeys))
		assert.Positive(t, result.Visits)
	}
}

func TestRunAllFailingSiteAbortsRun(t *testing.T) {
	collab := NewMockCollaboration(engine.NewDefault(), nil)
	require.NoError(t, collab.RegisterSite("clinic-a", siteSource(1)))
	require.NoError(t, collab.RegisterSite("clinic-b", staticSource{err: errors.New("dataset unreadable")}))

	results, err := collab.RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clinic-b")
	assert.Nil(t, results)
}

func TestRegisterSiteValidation(t *testing.T) {
	collab := NewMockCollaboration(engine.NewDefault(), nil)
	require.Error(t, collab.RegisterSite("", siteSource(1)))

	require.NoError(t, collab.RegisterSite("clinic-a", siteSource(1)))
	require.Error(t, collab.RegisterSite("clinic-a", siteSource(2)))

	assert.Equal(t, []string{"clinic-a"}, collab.SiteNames())
}
