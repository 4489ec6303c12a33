package labmetrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventoryportal/internal/tabular"
)

func billingTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read("billing.csv", strings.NewReader(csv), 0)
	require.NoError(t, err)
	return table
}

func TestAggregate(t *testing.T) {
	table := billingTable(t, strings.Join([]string{
		`Price,Client #,Ref. Phy.,Description of Service`,
		`10,A,Dr.X,CBC`,
		`20,A,Dr.Y,CBC`,
	}, "\n"))

	report, err := Aggregate(table)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, report.TotalCost, 1e-9)

	require.Len(t, report.CostPerClient, 1)
	assert.Equal(t, ClientCost{Client: "A", Total: 30}, report.CostPerClient[0])

	require.Len(t, report.ServiceCounts, 1)
	assert.Equal(t, ServiceCount{Service: "CBC", Count: 2}, report.ServiceCounts[0])

	require.Len(t, report.OrdersPerProviderService, 2)
	assert.Equal(t, ProviderServiceCount{Provider: "Dr.X", Service: "CBC", Count: 1}, report.OrdersPerProviderService[0])
	assert.Equal(t, ProviderServiceCount{Provider: "Dr.Y", Service: "CBC", Count: 1}, report.OrdersPerProviderService[1])

	require.Len(t, report.CostPerProvider, 2)
	assert.InDelta(t, 10.0, report.CostPerProvider[0].Total, 1e-9)
	assert.InDelta(t, 20.0, report.CostPerProvider[1].Total, 1e-9)
}

func TestAggregateGroupOrderIsFirstSeen(t *testing.T) {
	table := billingTable(t, strings.Join([]string{
		`Price,Client #,Ref. Phy.,Description of Service`,
		`5,B,Dr.Z,Lipid Panel`,
		`5,A,Dr.Z,CBC`,
		`5,B,Dr.Z,CBC`,
	}, "\n"))

	report, err := Aggregate(table)
	require.NoError(t, err)

	assert.Equal(t, "B", report.CostPerClient[0].Client)
	assert.Equal(t, "A", report.CostPerClient[1].Client)
	assert.Equal(t, "Lipid Panel", report.ServiceCounts[0].Service)
	assert.Equal(t, 2, report.ServiceCounts[1].Count)
}

func TestAggregateUnparseablePriceCountsAsZero(t *testing.T) {
	table := billingTable(t, strings.Join([]string{
		`Price,Client #,Ref. Phy.,Description of Service`,
		`10,A,Dr.X,CBC`,
		`n/a,A,Dr.X,CBC`,
	}, "\n"))

	report, err := Aggregate(table)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, report.TotalCost, 1e-9)
	assert.Equal(t, 2, report.ServiceCounts[0].Count)
}

func TestAggregateMissingColumnsAbort(t *testing.T) {
	table := billingTable(t, "Price,Client #\n10,A\n")

	_, err := Aggregate(table)
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{ColumnProvider, ColumnService}, missing.Columns)
	assert.Contains(t, missing.Error(), "Ref. Phy.")
}

func TestWorkbookHasOneSheetPerAggregate(t *testing.T) {
	table := billingTable(t, strings.Join([]string{
		`Price,Client #,Ref. Phy.,Description of Service`,
		`10,A,Dr.X,CBC`,
	}, "\n"))
	report, err := Aggregate(table)
	require.NoError(t, err)

	buf, err := Workbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{
		"Total Cost", "Cost per Client", "Ordering per Provider", "Cost per Provider", "Lab Type Count",
	}, f.GetSheetList())

	total, err := f.GetCellValue("Total Cost", "A2")
	require.NoError(t, err)
	assert.Equal(t, "10", total)

	client, err := f.GetCellValue("Cost per Client", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A", client)
}
