package ingest

import (
	"strconv"
	"strings"
	"time"

	"inventoryportal/internal/inventory"
	"inventoryportal/internal/schema"
	"inventoryportal/internal/tabular"
)

// dateLayouts are tried in order when parsing Date Ordered cells. Vendor
// exports are inconsistent about date formats.
var dateLayouts = []string{
	inventory.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Options tweaks normalization between ingestion paths.
type Options struct {
	// ForceZeroParLevel is set on bulk ingestion: source par levels are
	// ignored and the operator corrects them during review.
	ForceZeroParLevel bool
}

// Normalize coerces a set of raw field values into an inventory record,
// applying the per-field policy: Qty is an integer or unset, money fields
// default to zero, dates default to today, everything else is a raw string.
// If the total cost comes out absent or zero it is rederived as Qty × Value,
// or falls back to the bare unit value on a Qty-less row (that fallback is
// marked on the record via CostAssumed).
func Normalize(values map[string]string, now time.Time, opts Options) inventory.Record {
	rec := inventory.Record{
		Department:  values[schema.KeyDepartment],
		Vendor:      values[schema.KeyVendor],
		Item:        values[schema.KeyItem],
		Location:    values[schema.KeyLocation],
		Unit:        values[schema.KeyUnit],
		Frequency:   values[schema.KeyFrequency],
		Qty:         parseQty(values[schema.KeyQty]),
		Value:       parseMoney(values[schema.KeyValue]),
		TotalCost:   parseMoney(values[schema.KeyTotalCost]),
		DateOrdered: parseDate(values[schema.KeyDateOrdered], now),
	}

	if opts.ForceZeroParLevel {
		rec.ParLevel = 0
	} else {
		rec.ParLevel = parseCount(values[schema.KeyParLevel])
	}

	if rec.TotalCost == 0 {
		if rec.Qty != nil {
			rec.TotalCost = rec.DerivedTotal()
		} else {
			rec.TotalCost = rec.Value
			rec.CostAssumed = true
		}
	}
	return rec
}

// NormalizeRow normalizes one source row of a bulk upload through a
// confirmed column mapping.
func NormalizeRow(table *tabular.Table, row int, mapping ColumnMapping, now time.Time) inventory.Record {
	values := map[string]string{}
	for _, key := range schema.Keys() {
		values[key] = mapping.Cell(table, row, key)
	}
	return Normalize(values, now, Options{ForceZeroParLevel: true})
}

// NormalizeBatch normalizes every row of an upload in source order.
func NormalizeBatch(table *tabular.Table, mapping ColumnMapping, now time.Time) []inventory.Record {
	records := make([]inventory.Record, 0, len(table.Rows))
	for i := range table.Rows {
		records = append(records, NormalizeRow(table, i, mapping, now))
	}
	return records
}

// parseQty parses a non-negative integer quantity. Unparseable or negative
// input leaves the quantity unset rather than zero; integral floats ("3.0")
// are accepted.
func parseQty(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return &n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 && f == float64(int(f)) {
		n := int(f)
		return &n
	}
	return nil
}

// parseCount parses a non-negative integer, defaulting to zero.
func parseCount(raw string) int {
	if n := parseQty(raw); n != nil && *n >= 0 {
		return *n
	}
	return 0
}

// parseMoney parses a non-negative floating-point amount. Unparseable or
// negative input defaults to zero.
func parseMoney(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseDate parses a calendar date, trying the known layouts in order.
// Empty or unparseable input yields the ingestion-time current date.
func parseDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(inventory.DateLayout)
			}
		}
	}
	return now.Format(inventory.DateLayout)
}

// McKessonRow is one row of a McKesson statement: only the order date and
// the total to allocate, read from fixed column positions.
type McKessonRow struct {
	DateOrdered string  `json:"dateOrdered"`
	TotalCost   float64 `json:"totalCost"`
}

// McKesson column positions (zero-indexed). The statement's header names
// are unreliable, so cells are addressed positionally.
const (
	mckessonDateColumn = 5
	mckessonCostColumn = 7
)

// McKessonRows extracts the (date, total cost) pairs from a McKesson
// statement, applying date and money coercion per row.
func McKessonRows(table *tabular.Table, now time.Time) []McKessonRow {
	rows := make([]McKessonRow, 0, len(table.Rows))
	for i := range table.Rows {
		rows = append(rows, McKessonRow{
			DateOrdered: parseDate(table.Cell(i, mckessonDateColumn), now),
			TotalCost:   parseMoney(table.Cell(i, mckessonCostColumn)),
		})
	}
	return rows
}
