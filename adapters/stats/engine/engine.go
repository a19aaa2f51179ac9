// Package engine implements the per-site statistics computation: the
// eight descriptive statistic functions, composed into one validated
// partial-stats bundle. Everything here is pure and synchronous; the
// input table is never mutated, so concurrent computations over
// independent tables need no coordination.
package engine

import (
	"stratastats/domain/cohort"
	"stratastats/domain/core"
	"stratastats/domain/privacy"
	"stratastats/domain/schema"
	"stratastats/domain/stats"
)

// Engine computes privacy-masked partial statistics for one site.
type Engine struct {
	policy privacy.Policy
}

// New creates an engine with the given masking policy.
func New(policy privacy.Policy) *Engine {
	return &Engine{policy: policy}
}

// NewDefault creates an engine with the default privacy threshold.
func NewDefault() *Engine {
	return New(privacy.DefaultPolicy())
}

// Policy returns the masking policy in effect.
func (e *Engine) Policy() privacy.Policy {
	return e.policy
}

// BundleModel names the composite result in validation errors.
const BundleModel = "partial_stats"

type step struct {
	key  string
	spec *schema.ObjectSpec
	fn   func(*cohort.Table) (map[string]any, error)
}

func (e *Engine) steps() []step {
	return []step{
		{stats.KeyUniquePatients, stats.UniquePatientsSchema, e.uniquePatients},
		{stats.KeyVisitDefinition, stats.VisitDefinitionSchema, e.checkVisitDefinition},
		{stats.KeyVisitRates, stats.VisitRatesSchema, e.visitsPerTimePeriod},
		{stats.KeyMissingData, stats.MissingDataSchema, e.missingDataPerVisit},
		{stats.KeyDemographics, stats.DemographicsSchema, e.demographics},
		{stats.KeyDiseaseDuration, stats.DiseaseDurationSchema, e.diseaseDuration},
		{stats.KeyLabOverall, stats.LabOverallSchema, e.labValuesOverall},
		{stats.KeyLabGroupedByPat, stats.LabAggregatedSchema, e.labValuesAggregated},
	}
}

// ComputePartialStats runs every statistic in fixed order and
// assembles the composite bundle. Each statistic's output is
// validated against its own schema, and the assembled bundle against
// the composite schema. Any failure aborts the whole computation:
// downstream aggregation cannot safely combine a partially computed
// site result, so there is no best-effort mode.
func (e *Engine) ComputePartialStats(table *cohort.Table) (stats.Bundle, error) {
	bundle := make(stats.Bundle)
	for _, s := range e.steps() {
		out, err := schema.Validated(s.key, s.spec, s.fn)(table)
		if err != nil {
			return nil, err
		}
		bundle[s.key] = out
	}
	if err := schema.Validate(BundleModel, bundle, stats.BundleSchema); err != nil {
		return nil, core.NewOutputError(BundleModel, err)
	}
	return bundle, nil
}

// ValidateBundle re-checks a bundle against the composite schema,
// used when a stored or transported bundle re-enters the node.
func ValidateBundle(bundle stats.Bundle) error {
	return schema.Validate(BundleModel, bundle, stats.BundleSchema)
}
