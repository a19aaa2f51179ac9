// Package tabular reads site datasets (CSV or Excel) into the cohort
// table the engine computes over. This is the input boundary: nothing
// past the returned Table knows about file formats.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"stratastats/domain/cohort"
)

// DataReader handles reading Excel and CSV files into a cohort table
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file; the extension
// decides the format.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xls" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the dataset into a cohort table.
func (r *DataReader) ReadTable() (*cohort.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readCSV() (*cohort.Table, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return tableFromRecords(records)
}

func (r *DataReader) readExcel() (*cohort.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return tableFromRecords(rows)
}

func tableFromRecords(records [][]string) (*cohort.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset has no header row")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	table, err := cohort.NewTable(header)
	if err != nil {
		return nil, err
	}

	for _, record := range records[1:] {
		cells := make([]cohort.Value, 0, len(record))
		for _, raw := range record {
			cells = append(cells, CoerceCell(raw))
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// CoerceCell converts one raw cell to a typed value: empty cells are
// missing, numeric literals become numbers, everything else stays
// text.
func CoerceCell(raw string) cohort.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "na") || strings.EqualFold(trimmed, "nan") {
		return cohort.MissingValue()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return cohort.NumberValue(f)
	}
	return cohort.TextValue(trimmed)
}
