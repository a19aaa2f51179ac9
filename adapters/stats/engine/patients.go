package engine

import (
	"stratastats/domain/cohort"
	"stratastats/domain/stats"
)

// uniquePatients counts distinct patient identifiers, masked below
// the privacy threshold.
func (e *Engine) uniquePatients(t *cohort.Table) (map[string]any, error) {
	count, err := t.UniquePatients()
	if err != nil {
		return nil, err
	}
	return stats.UniquePatients{Count: e.policy.MaskScalar(count)}.AsMap(), nil
}

// checkVisitDefinition flags visits that add no clinical information:
// every DMARD value unchanged from the previous visit and every
// disease-activity measurement missing. Two DMARD values that are
// both missing count as unchanged; a value recorded at only one of
// the two visits counts as a change.
//
// TODO: confirm with clinical partners whether one-sided missing
// DMARD values should really count as a change.
func (e *Engine) checkVisitDefinition(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.ColPatientID, cohort.ColVisitMonths); err != nil {
		return nil, err
	}
	groups, err := t.GroupByPatient()
	if err != nil {
		return nil, err
	}

	invalid := 0
	for _, group := range groups {
		rows := t.SortRowsByVisitTime(group.Rows)
		for i := 1; i < len(rows); i++ {
			if e.dmardUnchanged(t, rows[i], rows[i-1]) && e.diseaseActivityMissing(t, rows[i]) {
				invalid++
			}
		}
	}
	return stats.VisitDefinition{InvalidVisits: invalid}.AsMap(), nil
}

func (e *Engine) dmardUnchanged(t *cohort.Table, current, previous int) bool {
	for _, col := range cohort.DMARDColumns {
		if !t.HasColumn(col) {
			continue
		}
		cur := t.Value(current, col)
		prev := t.Value(previous, col)
		if cur.IsMissing() && prev.IsMissing() {
			continue
		}
		if !cur.Equal(prev) {
			return false
		}
	}
	return true
}

func (e *Engine) diseaseActivityMissing(t *cohort.Table, row int) bool {
	for _, col := range cohort.DiseaseActivityColumns {
		if !t.HasColumn(col) {
			continue
		}
		if !t.Value(row, col).IsBlank() {
			return false
		}
	}
	return true
}

// visitsPerTimePeriod summarizes per-patient visit rates. A patient's
// rate is visits divided by first-to-last follow-up; patients with a
// single visit or a non-positive span have no rate and contribute
// nothing to the summary.
func (e *Engine) visitsPerTimePeriod(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.ColPatientID, cohort.ColVisitMonths); err != nil {
		return nil, err
	}
	groups, err := t.GroupByPatient()
	if err != nil {
		return nil, err
	}

	var rates []float64
	for _, group := range groups {
		if len(group.Rows) < 2 {
			continue
		}
		minT, maxT, any := 0.0, 0.0, false
		for _, row := range group.Rows {
			v, ok := t.Value(row, cohort.ColVisitMonths).Number()
			if !ok {
				continue
			}
			if !any || v < minT {
				minT = v
			}
			if !any || v > maxT {
				maxT = v
			}
			any = true
		}
		span := maxT - minT
		if !any || span <= 0 {
			continue
		}
		rates = append(rates, float64(len(group.Rows))/span)
	}

	return stats.VisitRates{
		Mean:          meanStat(rates, 3),
		Std:           stdStat(rates, 3),
		Median:        medianStat(rates, 3),
		TotalPatients: len(groups),
	}.AsMap(), nil
}

// missingDataPerVisit reports the share of visits where every
// disease-activity measurement is missing or blank.
func (e *Engine) missingDataPerVisit(t *cohort.Table) (map[string]any, error) {
	if err := t.RequireColumns(cohort.DiseaseActivityColumns...); err != nil {
		return nil, err
	}

	allMissing := 0
	total := t.NumRows()
	for row := 0; row < total; row++ {
		if e.diseaseActivityMissing(t, row) {
			allMissing++
		}
	}

	percent := 0.0
	if total > 0 {
		percent = roundTo(float64(allMissing)/float64(total)*100, 2)
	}
	return stats.MissingData{
		CountAllMissing:   allMissing,
		TotalVisits:       total,
		PercentAllMissing: percent,
	}.AsMap(), nil
}
