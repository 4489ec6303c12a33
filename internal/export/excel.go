// Package export renders the session's inventory store as a downloadable
// workbook, mirroring the canonical field order and flagging rows whose par
// level has dropped to the reorder threshold.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"inventoryportal/internal/inventory"
	"inventoryportal/internal/schema"
	"inventoryportal/internal/tabular"
)

const sheetName = "Inventory"

// lowParThreshold flags rows needing reorder attention in the export.
const lowParThreshold = 2

// Inventory writes one row per record in field-schema column order and
// fills rows with Par Level <= 2 so they stand out in the report.
func Inventory(records []inventory.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Values())
	}
	if err := tabular.WriteSheet(f, sheetName, schema.Keys(), rows); err != nil {
		return nil, fmt.Errorf("failed to fill inventory sheet: %w", err)
	}

	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFCCCC"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(schema.Keys()))
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if rec.ParLevel > lowParThreshold {
			continue
		}
		row := i + 2 // data starts below the header
		start := fmt.Sprintf("A%d", row)
		end := fmt.Sprintf("%s%d", lastCol, row)
		if err := f.SetCellStyle(sheetName, start, end, highlight); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write inventory workbook: %w", err)
	}
	return &buf, nil
}
