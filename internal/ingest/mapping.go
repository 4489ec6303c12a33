// Package ingest turns rows of uploaded vendor and inventory reports into
// inventory records: it maps source columns onto the canonical field schema
// and applies the per-field coercion policy.
package ingest

import (
	"fmt"

	"inventoryportal/internal/schema"
	"inventoryportal/internal/tabular"
)

// ColumnMapping assigns each schema key at most one source column name.
// An empty value means the key is unmapped and reads as empty.
type ColumnMapping map[string]string

// AmazonMapping is the fixed mapping for the Amazon order report format.
// Schema keys missing from the export stay unmapped.
func AmazonMapping() ColumnMapping {
	return ColumnMapping{
		schema.KeyDepartment:  "Department Name",
		schema.KeyVendor:      "Brand",
		schema.KeyItem:        "Title",
		schema.KeyUnit:        "Brand",
		schema.KeyQty:         "Item Quantity",
		schema.KeyValue:       "Item Price",
		schema.KeyDateOrdered: "Order Date",
		schema.KeyTotalCost:   "Order Subtotal",
	}
}

// GuessMapping proposes a mapping for a generic inventory report: a schema
// key maps to the source column of the same name when one exists, else it
// stays unmapped. The operator reviews and overrides before confirming.
func GuessMapping(table *tabular.Table) ColumnMapping {
	mapping := ColumnMapping{}
	for _, key := range schema.Keys() {
		if table.HasColumn(key) {
			mapping[key] = key
		}
	}
	return mapping
}

// ApplyOverrides folds operator overrides into a proposed mapping and
// validates the result against the source columns. An override naming a
// column absent from the file is an error; an empty override unmaps the key.
func ApplyOverrides(proposed ColumnMapping, overrides map[string]string, table *tabular.Table) (ColumnMapping, error) {
	mapping := ColumnMapping{}
	for k, v := range proposed {
		mapping[k] = v
	}
	for key, column := range overrides {
		if _, ok := schema.Lookup(key); !ok {
			return nil, fmt.Errorf("unknown field %q in column mapping", key)
		}
		if column == "" {
			delete(mapping, key)
			continue
		}
		if !table.HasColumn(column) {
			return nil, fmt.Errorf("column %q not found in uploaded file", column)
		}
		mapping[key] = column
	}
	return mapping, nil
}

// Cell reads the source cell a schema key maps to, or "" when unmapped or
// the column is missing from the file.
func (m ColumnMapping) Cell(table *tabular.Table, row int, key string) string {
	column := m[key]
	if column == "" {
		return ""
	}
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return ""
	}
	return table.Cell(row, idx)
}
