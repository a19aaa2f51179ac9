package app

import (
	"context"
	"errors"
	"time"

	"stratastats/adapters/stats/engine"
	"stratastats/domain/core"
	"stratastats/domain/schema"
	"stratastats/domain/stats"
	"stratastats/internal"
	apperrors "stratastats/internal/errors"
	"stratastats/ports"
)

// PartialStatsService is the node-side orchestration around the pure
// engine: read the local dataset, compute the bundle, optionally
// persist it, hand it back for transport. The service is the only
// layer that logs, and it logs run metadata, never statistic values.
type PartialStatsService struct {
	engine  *engine.Engine
	source  ports.TableSource
	results ports.ResultRepository // nil when persistence is not configured
	siteID  core.SiteID
	log     *internal.Logger
}

// NewPartialStatsService creates the service. The repository may be
// nil; results are then only returned, not stored.
func NewPartialStatsService(eng *engine.Engine, source ports.TableSource, results ports.ResultRepository, siteID core.SiteID, log *internal.Logger) *PartialStatsService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &PartialStatsService{
		engine:  eng,
		source:  source,
		results: results,
		siteID:  siteID,
		log:     log,
	}
}

// Compute runs the full per-site computation once.
func (s *PartialStatsService) Compute(ctx context.Context) (*stats.Result, error) {
	started := time.Now()

	table, err := s.source.ReadTable()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read local dataset")
	}
	s.log.Info("dataset loaded: %d rows, %d columns", table.NumRows(), len(table.Columns()))

	bundle, err := s.engine.ComputePartialStats(table)
	if err != nil {
		s.log.Error("partial stats computation failed: %s", classify(err))
		return nil, wrapEngineError(err)
	}

	serialized, err := schema.MarshalSanitized(engine.BundleModel, bundle)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInternalError, err)
	}

	result := stats.NewResult(
		s.siteID,
		s.engine.Policy().Threshold,
		bundle,
		core.NewBundleFingerprint(serialized),
	)

	if s.results != nil {
		if err := s.results.Save(ctx, result); err != nil {
			return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
		}
	}

	s.log.Info("partial stats computed for site %s in %s", s.siteID, time.Since(started).Round(time.Millisecond))
	return result, nil
}

// GetResult retrieves a stored bundle.
func (s *PartialStatsService) GetResult(ctx context.Context, id core.ResultID) (*stats.Result, error) {
	if s.results == nil {
		return nil, apperrors.NotFound("result store")
	}
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, apperrors.WithCode(apperrors.CodeNotFound, err)
		}
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return result, nil
}

// ListResults retrieves this site's recent bundles.
func (s *PartialStatsService) ListResults(ctx context.Context, limit int) ([]*stats.Result, error) {
	if s.results == nil {
		return nil, nil
	}
	results, err := s.results.ListBySite(ctx, s.siteID, limit)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return results, nil
}

func wrapEngineError(err error) error {
	switch {
	case core.IsSchemaAdherenceError(err):
		return apperrors.WithCode(apperrors.CodeSchemaAdherence, err)
	case core.IsOutputValidationError(err):
		return apperrors.WithCode(apperrors.CodeOutputValidation, err)
	default:
		return apperrors.WithCode(apperrors.CodeInternalError, err)
	}
}

func classify(err error) string {
	switch {
	case core.IsSchemaAdherenceError(err):
		return "schema adherence violation"
	case core.IsOutputValidationError(err):
		return "output validation failure"
	default:
		return "internal error"
	}
}
