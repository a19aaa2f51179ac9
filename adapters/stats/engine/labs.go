package engine

import (
	"stratastats/domain/cohort"
	"stratastats/domain/stats"
)

// labValuesOverall computes visit-level distributions for every lab
// variable, including Tukey's IQR outlier count. Only the count of
// outliers is reported: the outlying values themselves are row-level
// data and would undo the masking applied everywhere else.
func (e *Engine) labValuesOverall(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.LabColumns...); err != nil {
		return nil, err
	}

	result := make(stats.LabOverallSet, len(cohort.LabColumns))
	for _, col := range cohort.LabColumns {
		values, _ := t.NumericColumn(col)
		result[col] = stats.LabOverall{
			Mean:         meanStat(values, 2),
			Std:          stdStat(values, 2),
			Skewness:     skewnessStat(values, 2),
			OutlierCount: tukeyOutlierCount(values),
		}
	}
	return result.AsMap(), nil
}

// tukeyOutlierCount counts values outside [Q1-1.5*IQR, Q3+1.5*IQR].
func tukeyOutlierCount(values []float64) int {
	q1, ok := quantile(values, 0.25)
	if !ok {
		return 0
	}
	q3, _ := quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}
	return outliers
}

// labValuesAggregated averages each lab variable within a patient
// first, then summarizes the per-patient means. Without the first
// level a patient with many visits would dominate the cohort
// statistic.
func (e *Engine) labValuesAggregated(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.ColPatientID); err != nil {
		return nil, err
	}
	if err := t.RequireColumns(cohort.LabColumns...); err != nil {
		return nil, err
	}
	groups, err := t.GroupByPatient()
	if err != nil {
		return nil, err
	}

	result := make(stats.LabAggregatedSet, len(cohort.LabColumns))
	for _, col := range cohort.LabColumns {
		var patientMeans []float64
		for _, group := range groups {
			sum, n := 0.0, 0
			for _, row := range group.Rows {
				if v, ok := t.Value(row, col).Number(); ok {
					sum += v
					n++
				}
			}
			// Patients with no recorded value for this variable drop out.
			if n > 0 {
				patientMeans = append(patientMeans, sum/float64(n))
			}
		}
		result[col] = stats.LabAggregated{
			Mean:   meanStat(patientMeans, 2),
			Std:    stdStat(patientMeans, 2),
			Median: medianStat(patientMeans, 2),
			Q1:     quantileStat(patientMeans, 0.25, 2),
			Q3:     quantileStat(patientMeans, 0.75, 2),
		}
	}
	return result.AsMap(), nil
}
