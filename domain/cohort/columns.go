package cohort

// Column names of the patient-visit table. These are the wire contract
// with the data-loading side: readers map whatever the site exports
// onto exactly these names.
const (
	ColPatientID     = "pat_ID"
	ColVisitMonths   = "Visit_months_from_diagnosis"
	ColAgeDiagnosis  = "Age_diagnosis"
	ColSex           = "Sex"
	ColRFPositivity  = "RF_positivity"
	ColAntiCCP       = "anti_CCP"
	ColYearDiagnosis = "Year_diagnosis"
)

// DMARDColumns are the treatment columns compared between consecutive
// visits by the visit-definition check.
var DMARDColumns = []string{"csDMARD1", "csDMARD2", "csDMARD3", "bDMARD", "tsDMARD", "GC"}

// DiseaseActivityColumns double as the laboratory/disease-activity
// measurements checked for missingness per visit.
var DiseaseActivityColumns = []string{"DAS28", "ESR", "CRP", "TJC28", "SJC28", "Pat_global", "Ph_global", "Pain"}

// LabColumns is the reporting order of laboratory statistics.
var LabColumns = []string{"CRP", "ESR", "TJC28", "SJC28", "DAS28", "Pat_global", "Ph_global", "Pain"}

// CategoricalDemographics are the demographic variables summarized as
// privacy-masked value counts.
var CategoricalDemographics = []string{ColSex, ColRFPositivity, ColAntiCCP}
