package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratastats/adapters/stats/engine"
	"stratastats/domain/cohort"
	"stratastats/domain/core"
	"stratastats/domain/stats"
	apperrors "stratastats/internal/errors"
	"stratastats/internal/testkit"
	"stratastats/ports"
)

type fakeSource struct {
	table *cohort.Table
	err   error
}

func (f fakeSource) ReadTable() (*cohort.Table, error) {
	return f.table, f.err
}

type memoryRepository struct {
	saved []*stats.Result
}

func (m *memoryRepository) Save(_ context.Context, result *stats.Result) error {
	m.saved = append(m.saved, result)
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id core.ResultID) (*stats.Result, error) {
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, core.ErrResultNotFound
}

func (m *memoryRepository) ListBySite(_ context.Context, siteID core.SiteID, limit int) ([]*stats.Result, error) {
	var out []*stats.Result
	for _, r := range m.saved {
		if r.SiteID == siteID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo *memoryRepository) *PartialStatsService {
	t.Helper()
	source := fakeSource{table: testkit.GenerateCohort(testkit.DefaultCohortOptions())}
	// A typed nil pointer would make the repository interface non-nil.
	var results ports.ResultRepository
	if repo != nil {
		results = repo
	}
	return NewPartialStatsService(engine.NewDefault(), source, results, core.SiteID("site-1"), nil)
}

func TestComputePersistsResult(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(t, repo)

	result, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.SiteID("site-1"), result.SiteID)
	assert.Equal(t, 5, result.Threshold)
	assert.Len(t, result.Bundle, len(stats.BundleKeys))
	assert.NotEmpty(t, result.Fingerprint)
	assert.False(t, result.ComputedAt.IsZero())

	require.Len(t, repo.saved, 1)
	assert.Equal(t, result.ID, repo.saved[0].ID)

	got, err := svc.GetResult(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, got.Fingerprint)
}

func TestComputeWithoutRepository(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Bundle, len(stats.BundleKeys))

	_, err = svc.GetResult(context.Background(), result.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestComputeSchemaAdherenceFailure(t *testing.T) {
	// A dataset missing required columns must not produce a result at
	// all, and the error must carry the schema-adherence code so the
	// transport layer can report it as a client-side problem.
	table := testkit.MustTable([]string{cohort.ColPatientID}, [][]any{{"P1"}})
	svc := NewPartialStatsService(engine.NewDefault(), fakeSource{table: table}, nil, core.SiteID("site-1"), nil)

	result, err := svc.Compute(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeSchemaAdherence, apperrors.GetCode(err))
}

func TestGetResultUnknownID(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(t, repo)

	_, err := svc.GetResult(context.Background(), core.ResultID(core.NewID()))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}
