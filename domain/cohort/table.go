package cohort

import (
	"fmt"
	"sort"

	"stratastats/domain/core"
)

// Table is an immutable patient-visit dataset: rows of visits with
// named columns. It is the only input the statistics engine sees; the
// engine never mutates it, so concurrent computations over the same
// table are safe.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable creates an empty table with the given column layout.
func NewTable(columns []string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in dataset header", name)
		}
		index[name] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols, index: index}, nil
}

// AppendRow adds one visit. Short rows are padded with missing cells,
// matching how CSV exports drop trailing empty fields.
func (t *Table) AppendRow(cells []Value) error {
	if len(cells) > len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	row := make([]Value, len(t.columns))
	copy(row, cells)
	for i := len(cells); i < len(row); i++ {
		row[i] = MissingValue()
	}
	t.rows = append(t.rows, row)
	return nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// RequireColumns fails with a schema-adherence error naming every
// absent column. Statistic functions call this before touching data.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return core.NewColumnMissingError(missing...)
	}
	return nil
}

// NumRows returns the visit count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Value returns one cell. Unknown columns read as missing.
func (t *Table) Value(row int, column string) Value {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return MissingValue()
	}
	return t.rows[row][idx]
}

// Column returns all cells of a column in row order.
func (t *Table) Column(name string) ([]Value, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, true
}

// NumericColumn coerces a column to numbers, dropping cells that are
// missing or fail to parse.
func (t *Table) NumericColumn(name string) ([]float64, bool) {
	cells, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if f, ok := cell.Number(); ok {
			out = append(out, f)
		}
	}
	return out, true
}

// PatientGroup is the visits of one patient, as row indices in
// original dataset order.
type PatientGroup struct {
	Patient string
	Rows    []int
}

// GroupByPatient groups rows by pat_ID. Rows whose patient identifier
// is missing belong to no patient and are excluded. Groups come back
// sorted by patient key so iteration order is deterministic.
func (t *Table) GroupByPatient() ([]PatientGroup, error) {
	if err := t.RequireColumns(ColPatientID); err != nil {
		return nil, err
	}
	byPatient := make(map[string][]int)
	var order []string
	for i := 0; i < t.NumRows(); i++ {
		id := t.Value(i, ColPatientID)
		if id.IsBlank() {
			continue
		}
		key := id.Label()
		if _, seen := byPatient[key]; !seen {
			order = append(order, key)
		}
		byPatient[key] = append(byPatient[key], i)
	}
	sort.Strings(order)
	groups := make([]PatientGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, PatientGroup{Patient: key, Rows: byPatient[key]})
	}
	return groups, nil
}

// UniquePatients counts distinct non-missing patient identifiers.
func (t *Table) UniquePatients() (int, error) {
	groups, err := t.GroupByPatient()
	if err != nil {
		return 0, err
	}
	return len(groups), nil
}

// SortRowsByVisitTime orders a patient's rows chronologically by
// Visit_months_from_diagnosis. The sort is stable and rows without a
// parseable time offset sort last, so sequential current-vs-previous
// comparisons see a deterministic order.
func (t *Table) SortRowsByVisitTime(rows []int) []int {
	sorted := make([]int, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(a, b int) bool {
		va, okA := t.Value(sorted[a], ColVisitMonths).Number()
		vb, okB := t.Value(sorted[b], ColVisitMonths).Number()
		if okA && okB {
			return va < vb
		}
		return okA && !okB
	})
	return sorted
}
