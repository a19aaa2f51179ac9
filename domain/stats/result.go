package stats

import (
	"time"

	"stratastats/domain/core"
)

// Result is one computed partial-stats bundle as stored and served by
// the node before the federation client collects it.
type Result struct {
	ID          core.ResultID          `json:"id" db:"id"`
	SiteID      core.SiteID            `json:"site_id" db:"site_id"`
	Threshold   int                    `json:"privacy_threshold" db:"privacy_threshold"`
	Bundle      Bundle                 `json:"bundle" db:"-"`
	Fingerprint core.BundleFingerprint `json:"fingerprint" db:"fingerprint"`
	ComputedAt  time.Time              `json:"computed_at" db:"computed_at"`
}

// NewResult wraps a validated bundle in a stored record.
func NewResult(siteID core.SiteID, threshold int, bundle Bundle, fingerprint core.BundleFingerprint) *Result {
	return &Result{
		ID:          core.ResultID(core.NewID()),
		SiteID:      siteID,
		Threshold:   threshold,
		Bundle:      bundle,
		Fingerprint: fingerprint,
		ComputedAt:  time.Now().UTC(),
	}
}
