package ports

import (
	"stratastats/domain/cohort"
)

// TableSource supplies the patient-visit table the engine computes
// over. Implementations own file formats and parsing; the engine only
// ever sees a cohort.Table.
type TableSource interface {
	ReadTable() (*cohort.Table, error)
}
