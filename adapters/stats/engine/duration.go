package engine

import (
	"stratastats/domain/cohort"
	"stratastats/domain/stats"
)

// diseaseDuration computes the distribution of diagnosis year across
// patients. The table holds one row per visit, so the year is first
// deduplicated to the earliest recorded value per patient; values
// that do not parse as numbers are excluded rather than guessed at.
func (e *Engine) diseaseDuration(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.ColYearDiagnosis, cohort.ColPatientID); err != nil {
		return nil, err
	}
	groups, err := t.GroupByPatient()
	if err != nil {
		return nil, err
	}

	var years []float64
	for _, group := range groups {
		for _, row := range group.Rows {
			cell := t.Value(row, cohort.ColYearDiagnosis)
			if cell.IsMissing() {
				continue
			}
			// First recorded value decides for the patient; if it is
			// not numeric the patient is excluded.
			if year, ok := cell.Number(); ok {
				years = append(years, year)
			}
			break
		}
	}

	return stats.DiseaseDuration{
		Mean:     meanStat(years, 2),
		Std:      stdStat(years, 2),
		Skewness: skewnessStat(years, 2),
	}.AsMap(), nil
}
