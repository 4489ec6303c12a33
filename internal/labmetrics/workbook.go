package labmetrics

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"inventoryportal/internal/tabular"
)

// Workbook renders the report as a multi-sheet workbook, one sheet per
// aggregate, and returns its bytes.
func Workbook(report *Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Total Cost"); err != nil {
		return nil, err
	}

	sheets := []struct {
		name    string
		columns []string
		rows    [][]interface{}
	}{
		{"Total Cost", []string{"total_cost"}, [][]interface{}{{report.TotalCost}}},
		{"Cost per Client", []string{ColumnClient, ColumnPrice}, clientRows(report)},
		{"Ordering per Provider", []string{ColumnProvider, ColumnService, "Order_Count"}, pairRows(report)},
		{"Cost per Provider", []string{ColumnProvider, ColumnPrice}, providerRows(report)},
		{"Lab Type Count", []string{ColumnService, "count"}, serviceRows(report)},
	}

	for _, sheet := range sheets {
		if err := tabular.WriteSheet(f, sheet.name, sheet.columns, sheet.rows); err != nil {
			return nil, fmt.Errorf("failed to fill sheet %q: %w", sheet.name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write metrics workbook: %w", err)
	}
	return &buf, nil
}

func clientRows(report *Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.CostPerClient))
	for _, c := range report.CostPerClient {
		rows = append(rows, []interface{}{c.Client, c.Total})
	}
	return rows
}

func pairRows(report *Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.OrdersPerProviderService))
	for _, p := range report.OrdersPerProviderService {
		rows = append(rows, []interface{}{p.Provider, p.Service, p.Count})
	}
	return rows
}

func providerRows(report *Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.CostPerProvider))
	for _, p := range report.CostPerProvider {
		rows = append(rows, []interface{}{p.Provider, p.Total})
	}
	return rows
}

func serviceRows(report *Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.ServiceCounts))
	for _, s := range report.ServiceCounts {
		rows = append(rows, []interface{}{s.Service, s.Count})
	}
	return rows
}
