package engine

import (
	"stratastats/domain/cohort"
	"stratastats/domain/stats"
)

// demographics summarizes age at diagnosis and the categorical
// demographic variables. Value counts run through the masking policy,
// so a site with any rare category reports sentinels instead of
// counts. Every required column must be present; a silent skip would
// produce bundles that cannot be aggregated across sites.
func (e *Engine) demographics(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.ColAgeDiagnosis); err != nil {
		return nil, err
	}
	if err := t.RequireColumns(cohort.CategoricalDemographics...); err != nil {
		return nil, err
	}

	ages, _ := t.NumericColumn(cohort.ColAgeDiagnosis)
	result := stats.Demographics{
		AgeMean:     meanStat(ages, 2),
		AgeStd:      stdStat(ages, 2),
		Categorical: make(map[string]stats.CategoryBreakdown, len(cohort.CategoricalDemographics)),
	}

	for _, variable := range cohort.CategoricalDemographics {
		cells, _ := t.Column(variable)
		counts := make(map[string]int)
		for _, cell := range cells {
			// Missing observations form their own bucket.
			counts[cell.Label()]++
		}
		result.Categorical[variable] = e.policy.MaskCounts(counts)
	}

	return result.AsMap(), nil
}
