package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventoryportal/internal/schema"
	"inventoryportal/internal/tabular"
)

var ingestedAt = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func mustTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read("upload.csv", strings.NewReader(csv), 0)
	require.NoError(t, err)
	return table
}

func TestNormalizeDerivesTotalFromQtyAndValue(t *testing.T) {
	rec := Normalize(map[string]string{
		schema.KeyItem:  "Gloves",
		schema.KeyQty:   "3",
		schema.KeyValue: "9.50",
	}, ingestedAt, Options{})

	require.NotNil(t, rec.Qty)
	assert.Equal(t, 3, *rec.Qty)
	assert.InDelta(t, 28.5, rec.TotalCost, 1e-9)
	assert.False(t, rec.CostAssumed)
}

func TestNormalizeKeepsNonZeroSourceTotal(t *testing.T) {
	rec := Normalize(map[string]string{
		schema.KeyQty:       "3",
		schema.KeyValue:     "9.50",
		schema.KeyTotalCost: "25.00",
	}, ingestedAt, Options{})

	assert.InDelta(t, 25.0, rec.TotalCost, 1e-9)
}

func TestNormalizeQtylessRowFallsBackToValue(t *testing.T) {
	// A row without a usable quantity ends up with Total Cost == Value.
	// Longstanding source-data quirk; CostAssumed flags it for review.
	rec := Normalize(map[string]string{
		schema.KeyQty:   "a few",
		schema.KeyValue: "9.50",
	}, ingestedAt, Options{})

	assert.Nil(t, rec.Qty)
	assert.InDelta(t, 9.5, rec.TotalCost, 1e-9)
	assert.True(t, rec.CostAssumed)
}

func TestNormalizeQtyCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want *int
	}{
		{"4", intPtr(4)},
		{"4.0", intPtr(4)},
		{"", nil},
		{"n/a", nil},
		{"4.5", nil},
		{"-3", nil},
		{"-3.0", nil},
	}
	for _, tc := range cases {
		rec := Normalize(map[string]string{schema.KeyQty: tc.raw}, ingestedAt, Options{})
		if tc.want == nil {
			assert.Nil(t, rec.Qty, "raw %q", tc.raw)
		} else {
			require.NotNil(t, rec.Qty, "raw %q", tc.raw)
			assert.Equal(t, *tc.want, *rec.Qty, "raw %q", tc.raw)
		}
	}
}

func TestNormalizeNeverStoresNegativeNumbers(t *testing.T) {
	rec := Normalize(map[string]string{
		schema.KeyItem:      "Gloves",
		schema.KeyQty:       "-3",
		schema.KeyValue:     "-2.50",
		schema.KeyParLevel:  "-4",
		schema.KeyTotalCost: "-9.99",
	}, ingestedAt, Options{})

	assert.Nil(t, rec.Qty)
	assert.Equal(t, 0.0, rec.Value)
	assert.Equal(t, 0, rec.ParLevel)
	assert.Equal(t, 0.0, rec.TotalCost)
	assert.GreaterOrEqual(t, rec.Value, 0.0)
	assert.GreaterOrEqual(t, rec.TotalCost, 0.0)
}

func intPtr(v int) *int { return &v }

func TestNormalizeMoneyDefaultsToZero(t *testing.T) {
	rec := Normalize(map[string]string{
		schema.KeyValue:     "not a price",
		schema.KeyTotalCost: "",
	}, ingestedAt, Options{})

	assert.Zero(t, rec.Value)
	assert.Zero(t, rec.TotalCost)
}

func TestNormalizeDateFallsBackToToday(t *testing.T) {
	for _, raw := range []string{"", "soon", "13/45/2025"} {
		rec := Normalize(map[string]string{schema.KeyDateOrdered: raw}, ingestedAt, Options{})
		assert.Equal(t, "2025-06-15", rec.DateOrdered, "raw %q", raw)
	}

	rec := Normalize(map[string]string{schema.KeyDateOrdered: "06/01/2025"}, ingestedAt, Options{})
	assert.Equal(t, "2025-06-01", rec.DateOrdered)
}

func TestNormalizeBulkForcesZeroParLevel(t *testing.T) {
	values := map[string]string{schema.KeyParLevel: "7"}

	bulk := Normalize(values, ingestedAt, Options{ForceZeroParLevel: true})
	assert.Zero(t, bulk.ParLevel)

	manual := Normalize(values, ingestedAt, Options{})
	assert.Equal(t, 7, manual.ParLevel)
}

func TestAmazonMappingNormalization(t *testing.T) {
	table := mustTable(t, strings.Join([]string{
		"Department Name,Brand,Title,Item Quantity,Item Price,Order Date,Order Subtotal",
		"Manassas,Acme,Nitrile Gloves,2,12.50,2025-05-20,0",
	}, "\n"))

	records := NormalizeBatch(table, AmazonMapping(), ingestedAt)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Manassas", rec.Department)
	assert.Equal(t, "Acme", rec.Vendor)
	assert.Equal(t, "Nitrile Gloves", rec.Item)
	assert.Equal(t, "Acme", rec.Unit) // Amazon export has no unit column
	assert.Equal(t, "2025-05-20", rec.DateOrdered)
	assert.InDelta(t, 25.0, rec.TotalCost, 1e-9) // zero subtotal rederived
	assert.Zero(t, rec.ParLevel)
	assert.Empty(t, rec.Location)
}

func TestGuessMappingAndOverrides(t *testing.T) {
	table := mustTable(t, "Item,Qty,Product Value\nGloves,3,9.50\n")

	proposed := GuessMapping(table)
	assert.Equal(t, "Item", proposed[schema.KeyItem])
	assert.Equal(t, "Qty", proposed[schema.KeyQty])
	assert.Empty(t, proposed[schema.KeyValue])

	mapping, err := ApplyOverrides(proposed, map[string]string{
		schema.KeyValue: "Product Value",
		schema.KeyQty:   "",
	}, table)
	require.NoError(t, err)
	assert.Equal(t, "Product Value", mapping[schema.KeyValue])
	assert.Empty(t, mapping[schema.KeyQty])

	// The proposal itself is untouched.
	assert.Equal(t, "Qty", proposed[schema.KeyQty])
}

func TestApplyOverridesRejectsUnknownColumn(t *testing.T) {
	table := mustTable(t, "Item\nGloves\n")
	_, err := ApplyOverrides(GuessMapping(table), map[string]string{schema.KeyQty: "Quantity"}, table)
	assert.Error(t, err)

	_, err = ApplyOverrides(GuessMapping(table), map[string]string{"Bogus Field": "Item"}, table)
	assert.Error(t, err)
}

func TestGenericMappingPassesValuesThrough(t *testing.T) {
	table := mustTable(t, "Title,Qty\nSurgical Masks (Box of 50),10\n")

	mapping, err := ApplyOverrides(GuessMapping(table), map[string]string{schema.KeyItem: "Title"}, table)
	require.NoError(t, err)

	records := NormalizeBatch(table, mapping, ingestedAt)
	require.Len(t, records, 1)
	assert.Equal(t, "Surgical Masks (Box of 50)", records[0].Item)
}

func TestMcKessonRowsReadFixedPositions(t *testing.T) {
	table := mustTable(t, strings.Join([]string{
		"a,b,c,d,e,f,g,h",
		"x,x,x,x,x,2025-04-02,x,150.75",
		"x,x,x,x,x,unparseable,x,not-a-number",
		"short,row",
	}, "\n"))

	rows := McKessonRows(table, ingestedAt)
	require.Len(t, rows, 3)

	assert.Equal(t, "2025-04-02", rows[0].DateOrdered)
	assert.InDelta(t, 150.75, rows[0].TotalCost, 1e-9)

	assert.Equal(t, "2025-06-15", rows[1].DateOrdered)
	assert.Zero(t, rows[1].TotalCost)

	// Rows shorter than the fixed positions read as empty cells.
	assert.Equal(t, "2025-06-15", rows[2].DateOrdered)
	assert.Zero(t, rows[2].TotalCost)
}
