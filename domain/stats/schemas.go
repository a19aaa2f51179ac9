package stats

import (
	"stratastats/domain/cohort"
	"stratastats/domain/schema"
)

// Declared output shapes, one per statistic, plus the composite
// bundle. The validator runs these against every raw result before it
// is allowed into the bundle.

func maskableCount() schema.FieldSpec {
	return schema.Field(schema.Int | schema.String)
}

func maskableRatio() schema.FieldSpec {
	return schema.Field(schema.Number | schema.String | schema.Null)
}

func nullableNumber() schema.FieldSpec {
	return schema.Field(schema.Number | schema.Null)
}

// UniquePatientsSchema: the count is an int or a mask sentinel.
var UniquePatientsSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"unique_patients": maskableCount(),
	},
}

var VisitDefinitionSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"invalid_visits": schema.Field(schema.Int),
	},
}

var VisitRatesSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"visit_rate_mean":   nullableNumber(),
		"visit_rate_std":    nullableNumber(),
		"visit_rate_median": nullableNumber(),
		"total_patients":    schema.Field(schema.Int),
	},
}

var MissingDataSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"count_all_missing":   schema.Field(schema.Int),
		"total_visits":        schema.Field(schema.Int),
		"percent_all_missing": schema.Field(schema.Number),
	},
}

// DemographicsSchema: the categorical breakdowns are open maps since
// category labels come from the data, but every entry must be a
// maskable count or proportion.
var DemographicsSchema = func() *schema.ObjectSpec {
	countEntry := maskableCount()
	ratioEntry := maskableRatio()
	counts := &schema.ObjectSpec{Dynamic: &countEntry}
	proportions := &schema.ObjectSpec{Dynamic: &ratioEntry}
	fields := map[string]schema.FieldSpec{
		"Age_mean": nullableNumber(),
		"Age_std":  nullableNumber(),
	}
	for _, v := range cohort.CategoricalDemographics {
		fields[v+"_counts"] = schema.NestedField(counts)
		fields[v+"_proportions"] = schema.NestedField(proportions)
	}
	return &schema.ObjectSpec{Fields: fields}
}()

var DiseaseDurationSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		cohort.ColYearDiagnosis + "_mean":     nullableNumber(),
		cohort.ColYearDiagnosis + "_std":      nullableNumber(),
		cohort.ColYearDiagnosis + "_skewness": nullableNumber(),
	},
}

var labOverallEntry = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"mean":          nullableNumber(),
		"std":           nullableNumber(),
		"skewness":      nullableNumber(),
		"outlier_count": schema.Field(schema.Int),
	},
}

var labAggregatedEntry = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		"mean":   nullableNumber(),
		"std":    nullableNumber(),
		"median": nullableNumber(),
		"Q1":     nullableNumber(),
		"Q3":     nullableNumber(),
	},
}

func labSet(entry *schema.ObjectSpec) *schema.ObjectSpec {
	fields := make(map[string]schema.FieldSpec, len(cohort.LabColumns))
	for _, col := range cohort.LabColumns {
		fields[col] = schema.NestedField(entry)
	}
	return &schema.ObjectSpec{Fields: fields}
}

var (
	LabOverallSchema    = labSet(labOverallEntry)
	LabAggregatedSchema = labSet(labAggregatedEntry)
)

// BundleSchema is the composite contract: exactly the eight statistic
// outputs, each one its own validated sub-schema, no open fields.
var BundleSchema = &schema.ObjectSpec{
	Fields: map[string]schema.FieldSpec{
		KeyUniquePatients:  schema.NestedField(UniquePatientsSchema),
		KeyVisitDefinition: schema.NestedField(VisitDefinitionSchema),
		KeyVisitRates:      schema.NestedField(VisitRatesSchema),
		KeyMissingData:     schema.NestedField(MissingDataSchema),
		KeyDemographics:    schema.NestedField(DemographicsSchema),
		KeyDiseaseDuration: schema.NestedField(DiseaseDurationSchema),
		KeyLabOverall:      schema.NestedField(LabOverallSchema),
		KeyLabGroupedByPat: schema.NestedField(LabAggregatedSchema),
	},
}
