package ports

import (
	"context"

	"stratastats/domain/core"
	"stratastats/domain/stats"
)

// ResultRepository persists computed partial-stats bundles so the
// federation client can retrieve them after the computation task has
// finished.
type ResultRepository interface {
	Save(ctx context.Context, result *stats.Result) error
	GetByID(ctx context.Context, id core.ResultID) (*stats.Result, error)
	ListBySite(ctx context.Context, siteID core.SiteID, limit int) ([]*stats.Result, error)
}
