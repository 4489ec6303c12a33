package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type served with workbook downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteSheet fills a sheet of an open workbook with a header row followed by
// data rows. Cells accept any scalar excelize can encode.
func WriteSheet(f *excelize.File, sheetName string, columns []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteWorkbook renders a single-sheet workbook and returns its bytes.
func WriteWorkbook(sheetName string, columns []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := renameDefaultSheet(f, sheetName); err != nil {
		return nil, err
	}
	if err := WriteSheet(f, sheetName, columns, rows); err != nil {
		return nil, fmt.Errorf("failed to fill sheet %q: %w", sheetName, err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &buf, nil
}

// renameDefaultSheet replaces excelize's default "Sheet1" so the first real
// sheet carries the caller's name.
func renameDefaultSheet(f *excelize.File, sheetName string) error {
	if sheetName == "Sheet1" {
		return nil
	}
	return f.SetSheetName("Sheet1", sheetName)
}
