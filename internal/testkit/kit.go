// Package testkit builds synthetic patient-visit cohorts for tests
// and local demos. Generated data is random but seeded, so a failing
// case reproduces.
package testkit

import (
	"fmt"
	"math/rand"

	"stratastats/domain/cohort"
)

// CohortOptions control the synthetic cohort shape
type CohortOptions struct {
	Patients         int
	VisitsPerPatient int
	Seed             int64
	MissingRate      float64 // chance that a lab value is absent
}

// DefaultCohortOptions returns a small but realistic cohort
func DefaultCohortOptions() CohortOptions {
	return CohortOptions{
		Patients:         40,
		VisitsPerPatient: 5,
		Seed:             42,
		MissingRate:      0.15,
	}
}

// GenerateCohort produces a table with every column the engine
// requires.
func GenerateCohort(opts CohortOptions) *cohort.Table {
	rng := rand.New(rand.NewSource(opts.Seed))

	columns := []string{
		cohort.ColPatientID, cohort.ColVisitMonths,
		cohort.ColAgeDiagnosis, cohort.ColSex, cohort.ColRFPositivity, cohort.ColAntiCCP,
		cohort.ColYearDiagnosis,
	}
	columns = append(columns, cohort.DMARDColumns...)
	columns = append(columns, cohort.DiseaseActivityColumns...)

	table, err := cohort.NewTable(columns)
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}

	sexes := []string{"male", "female"}
	positivity := []string{"positive", "negative"}
	dmards := []string{"methotrexate", "sulfasalazine", "leflunomide", ""}

	for p := 0; p < opts.Patients; p++ {
		patID := fmt.Sprintf("P%03d", p+1)
		age := 30 + rng.Float64()*45
		sex := sexes[rng.Intn(len(sexes))]
		rf := positivity[rng.Intn(len(positivity))]
		ccp := positivity[rng.Intn(len(positivity))]
		year := float64(1995 + rng.Intn(28))
		therapy := dmards[rng.Intn(len(dmards))]

		months := 0.0
		for v := 0; v < opts.VisitsPerPatient; v++ {
			row := []cohort.Value{
				cohort.TextValue(patID),
				cohort.NumberValue(months),
				cohort.NumberValue(age),
				cohort.TextValue(sex),
				cohort.TextValue(rf),
				cohort.TextValue(ccp),
				cohort.NumberValue(year),
			}
			for range cohort.DMARDColumns {
				if therapy == "" {
					row = append(row, cohort.MissingValue())
				} else {
					row = append(row, cohort.TextValue(therapy))
				}
			}
			for range cohort.DiseaseActivityColumns {
				if rng.Float64() < opts.MissingRate {
					row = append(row, cohort.MissingValue())
				} else {
					row = append(row, cohort.NumberValue(rng.NormFloat64()*10+25))
				}
			}
			if err := table.AppendRow(row); err != nil {
				panic(fmt.Sprintf("testkit: %v", err))
			}
			months += 3 + rng.Float64()*6
		}
	}
	return table
}

// MustTable builds a table from literal rows for tests. Cell values
// may be nil (missing), numeric, or string.
func MustTable(columns []string, rows [][]any) *cohort.Table {
	table, err := cohort.NewTable(columns)
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
	for _, row := range rows {
		cells := make([]cohort.Value, len(row))
		for i, raw := range row {
			cells[i] = toValue(raw)
		}
		if err := table.AppendRow(cells); err != nil {
			panic(fmt.Sprintf("testkit: %v", err))
		}
	}
	return table
}

func toValue(raw any) cohort.Value {
	switch v := raw.(type) {
	case nil:
		return cohort.MissingValue()
	case float64:
		return cohort.NumberValue(v)
	case int:
		return cohort.NumberValue(float64(v))
	case string:
		return cohort.TextValue(v)
	default:
		panic(fmt.Sprintf("testkit: unsupported cell type %T", raw))
	}
}
