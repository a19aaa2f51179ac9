package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stratastats/domain/core"
	"stratastats/domain/stats"
	"stratastats/ports"
)

// resultRepository implements ports.ResultRepository on Postgres.
// Bundles are stored as JSONB: the wire mapping is the contract, so
// no per-statistic columns exist to drift out of sync with it.
type resultRepository struct {
	db *sqlx.DB
}

// Connect opens the result store and ensures its schema exists.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to result store: %w", err)
	}
	if _, err := db.ExecContext(ctx, createResultsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure results schema: %w", err)
	}
	return db, nil
}

const createResultsTable = `CREATE TABLE IF NOT EXISTS partial_stats_results (
	id TEXT PRIMARY KEY,
	site_id TEXT NOT NULL,
	privacy_threshold INT NOT NULL,
	bundle JSONB NOT NULL,
	fingerprint TEXT NOT NULL,
	computed_at TIMESTAMPTZ NOT NULL
)`

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

// Save inserts a computed bundle
func (r *resultRepository) Save(ctx context.Context, result *stats.Result) error {
	bundleJSON, err := json.Marshal(result.Bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	query := `INSERT INTO partial_stats_results (
		id, site_id, privacy_threshold, bundle, fingerprint, computed_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		result.ID, result.SiteID, result.Threshold, bundleJSON, result.Fingerprint, result.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetByID retrieves a stored bundle by its identifier
func (r *resultRepository) GetByID(ctx context.Context, id core.ResultID) (*stats.Result, error) {
	query := `SELECT id, site_id, privacy_threshold, bundle, fingerprint, computed_at
	FROM partial_stats_results WHERE id = $1`

	var result stats.Result
	var bundleJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.SiteID, &result.Threshold, &bundleJSON, &result.Fingerprint, &result.ComputedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if err := json.Unmarshal(bundleJSON, &result.Bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
	}
	return &result, nil
}

// ListBySite retrieves the most recent bundles for one site
func (r *resultRepository) ListBySite(ctx context.Context, siteID core.SiteID, limit int) ([]*stats.Result, error) {
	query := `SELECT id, site_id, privacy_threshold, bundle, fingerprint, computed_at
	FROM partial_stats_results WHERE site_id = $1 ORDER BY computed_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*stats.Result
	for rows.Next() {
		var result stats.Result
		var bundleJSON []byte
		if err := rows.Scan(
			&result.ID, &result.SiteID, &result.Threshold, &bundleJSON, &result.Fingerprint, &result.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal(bundleJSON, &result.Bundle); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
