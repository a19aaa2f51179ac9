package stats

import "stratastats/domain/cohort"

// Bundle keys of the composite partial-stats result, in computation
// order. These names are the cross-site wire contract and must stay
// stable across versions.
const (
	KeyUniquePatients   = "unique_patients_per_center"
	KeyVisitDefinition  = "check_visit_definition"
	KeyVisitRates       = "visits_per_time_period"
	KeyMissingData      = "missing_data_per_visit"
	KeyDemographics     = "demographics"
	KeyDiseaseDuration  = "disease_duration_distribution"
	KeyLabOverall       = "laboratory_values_overall"
	KeyLabGroupedByPat  = "laboratory_values_grouped_by_pat_id"
)

// BundleKeys lists the composite fields in their fixed order.
var BundleKeys = []string{
	KeyUniquePatients,
	KeyVisitDefinition,
	KeyVisitRates,
	KeyMissingData,
	KeyDemographics,
	KeyDiseaseDuration,
	KeyLabOverall,
	KeyLabGroupedByPat,
}

// Bundle is the validated wire form of one site's partial statistics.
type Bundle map[string]any

// UniquePatients reports the distinct patient count, masked below the
// privacy threshold.
type UniquePatients struct {
	Count CountValue
}

func (r UniquePatients) AsMap() map[string]any {
	return map[string]any{"unique_patients": r.Count.Wire()}
}

// VisitDefinition reports visits that carry no new clinical
// information relative to the preceding visit.
type VisitDefinition struct {
	InvalidVisits int
}

func (r VisitDefinition) AsMap() map[string]any {
	return map[string]any{"invalid_visits": r.InvalidVisits}
}

// VisitRates summarizes per-patient visit frequency. The rate is
// undefined for single-visit patients, so each summary field is
// nullable. TotalPatients is reported unmasked: the observed upstream
// behavior is preserved even though the same count is masked in
// UniquePatients (see DESIGN.md).
type VisitRates struct {
	Mean          FloatValue
	Std           FloatValue
	Median        FloatValue
	TotalPatients int
}

func (r VisitRates) AsMap() map[string]any {
	return map[string]any{
		"visit_rate_mean":   r.Mean.Wire(),
		"visit_rate_std":    r.Std.Wire(),
		"visit_rate_median": r.Median.Wire(),
		"total_patients":    r.TotalPatients,
	}
}

// MissingData reports how many visits have every disease-activity
// measurement absent.
type MissingData struct {
	CountAllMissing   int
	TotalVisits       int
	PercentAllMissing float64
}

func (r MissingData) AsMap() map[string]any {
	return map[string]any{
		"count_all_missing":   r.CountAllMissing,
		"total_visits":        r.TotalVisits,
		"percent_all_missing": r.PercentAllMissing,
	}
}

// CategoryBreakdown is the masked value-count summary of one
// categorical variable.
type CategoryBreakdown struct {
	Counts      map[string]CountValue
	Proportions map[string]RatioValue
}

func (b CategoryBreakdown) countsWire() map[string]any {
	out := make(map[string]any, len(b.Counts))
	for k, v := range b.Counts {
		out[k] = v.Wire()
	}
	return out
}

func (b CategoryBreakdown) proportionsWire() map[string]any {
	out := make(map[string]any, len(b.Proportions))
	for k, v := range b.Proportions {
		out[k] = v.Wire()
	}
	return out
}

// Demographics carries age distribution plus masked breakdowns of the
// categorical demographic variables, keyed by column name.
type Demographics struct {
	AgeMean     FloatValue
	AgeStd      FloatValue
	Categorical map[string]CategoryBreakdown
}

func (r Demographics) AsMap() map[string]any {
	out := map[string]any{
		"Age_mean": r.AgeMean.Wire(),
		"Age_std":  r.AgeStd.Wire(),
	}
	for name, breakdown := range r.Categorical {
		out[name+"_counts"] = breakdown.countsWire()
		out[name+"_proportions"] = breakdown.proportionsWire()
	}
	return out
}

// DiseaseDuration is the patient-level Year_diagnosis distribution.
type DiseaseDuration struct {
	Mean     FloatValue
	Std      FloatValue
	Skewness FloatValue
}

func (r DiseaseDuration) AsMap() map[string]any {
	return map[string]any{
		cohort.ColYearDiagnosis + "_mean":     r.Mean.Wire(),
		cohort.ColYearDiagnosis + "_std":      r.Std.Wire(),
		cohort.ColYearDiagnosis + "_skewness": r.Skewness.Wire(),
	}
}

// LabOverall is the visit-level distribution of one lab variable. Only
// the outlier count leaves the site; the outlying values themselves
// are row-level data and never appear in the output.
type LabOverall struct {
	Mean         FloatValue
	Std          FloatValue
	Skewness     FloatValue
	OutlierCount int
}

func (r LabOverall) AsMap() map[string]any {
	return map[string]any{
		"mean":          r.Mean.Wire(),
		"std":           r.Std.Wire(),
		"skewness":      r.Skewness.Wire(),
		"outlier_count": r.OutlierCount,
	}
}

// LabOverallSet maps lab column name to its visit-level distribution.
type LabOverallSet map[string]LabOverall

func (s LabOverallSet) AsMap() map[string]any {
	out := make(map[string]any, len(s))
	for name, lab := range s {
		out[name] = lab.AsMap()
	}
	return out
}

// LabAggregated is the cohort distribution of per-patient means for
// one lab variable. Averaging within each patient first keeps a
// single frequently-visiting patient from dominating the statistic.
type LabAggregated struct {
	Mean   FloatValue
	Std    FloatValue
	Median FloatValue
	Q1     FloatValue
	Q3     FloatValue
}

func (r LabAggregated) AsMap() map[string]any {
	return map[string]any{
		"mean":   r.Mean.Wire(),
		"std":    r.Std.Wire(),
		"median": r.Median.Wire(),
		"Q1":     r.Q1.Wire(),
		"Q3":     r.Q3.Wire(),
	}
}

// LabAggregatedSet maps lab column name to its aggregated distribution.
type LabAggregatedSet map[string]LabAggregated

func (s LabAggregatedSet) AsMap() map[string]any {
	out := make(map[string]any, len(s))
	for name, lab := range s {
		out[name] = lab.AsMap()
	}
	return out
}
