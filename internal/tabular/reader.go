// Package tabular reads uploaded spreadsheet and CSV byte streams into a
// uniform header+rows representation, and writes workbooks back out. File
// formats are treated as opaque: excelize handles xlsx workbooks and
// encoding/csv handles comma-separated text.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a parsed tabular file: trimmed column names plus data rows.
// Rows may be ragged; missing trailing cells read as empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Read parses an uploaded file into a Table. The format is chosen from the
// file name extension: .csv is parsed as comma-separated text, anything else
// goes through excelize. Legacy .xls workbooks are rejected up front since
// excelize only reads the newer formats. headerRow is the zero-based index
// of the row holding column names; rows above it are discarded (vendor
// exports carry a banner row above the real header).
func Read(filename string, r io.Reader, headerRow int) (*Table, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return readCSV(r, headerRow)
	case ".xls":
		return nil, fmt.Errorf("legacy .xls files are not supported; re-save the file as .xlsx or .csv")
	default:
		return readWorkbook(r, headerRow)
	}
}

func readCSV(r io.Reader, headerRow int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return fromRows(records, headerRow)
}

func readWorkbook(r io.Reader, headerRow int) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return fromRows(rows, headerRow)
}

func fromRows(rows [][]string, headerRow int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("file has no header row")
	}

	columns := make([]string, len(rows[headerRow]))
	for i, c := range rows[headerRow] {
		columns[i] = strings.TrimSpace(c)
	}

	table := &Table{Columns: columns}
	for _, row := range rows[headerRow+1:] {
		if isRowEmpty(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
