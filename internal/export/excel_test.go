package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventoryportal/internal/inventory"
)

func intPtr(v int) *int { return &v }

func TestInventoryWorkbook(t *testing.T) {
	records := []inventory.Record{
		{Item: "Gloves", Qty: intPtr(3), ParLevel: 5, Value: 9.5, TotalCost: 28.5, DateOrdered: "2025-06-01"},
		{Item: "Masks", Qty: intPtr(1), ParLevel: 1, Value: 2, TotalCost: 2, DateOrdered: "2025-06-02"},
	}

	buf, err := Inventory(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Inventory", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Department", header)

	lastHeader, err := f.GetCellValue("Inventory", "K1")
	require.NoError(t, err)
	assert.Equal(t, "Total Cost", lastHeader)

	item, err := f.GetCellValue("Inventory", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Gloves", item)

	// The low-par row carries a fill style; the healthy row does not.
	lowParStyle, err := f.GetCellStyle("Inventory", "A3")
	require.NoError(t, err)
	healthyStyle, err := f.GetCellStyle("Inventory", "A2")
	require.NoError(t, err)
	assert.NotEqual(t, healthyStyle, lowParStyle)
}

func TestInventoryWorkbookEmptyStore(t *testing.T) {
	buf, err := Inventory(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
