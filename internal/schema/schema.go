// Package schema defines the canonical set of inventory fields used across
// manual entry, bulk ingestion, review and export. The field order here is
// the display and export order everywhere in the portal.
package schema

// Field keys. These are the map keys of every inventory record.
const (
	KeyDepartment  = "Department"
	KeyVendor      = "Vendor"
	KeyItem        = "Item"
	KeyLocation    = "Location"
	KeyUnit        = "Unit"
	KeyQty         = "Qty"
	KeyParLevel    = "Par Level"
	KeyValue       = "Value"
	KeyFrequency   = "Frequency"
	KeyDateOrdered = "Date Ordered"
	KeyTotalCost   = "Total Cost"
)

// Field describes one inventory attribute: its record key, the label shown
// to the operator, and an optional closed set of allowed values.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Choices []string `json:"choices,omitempty"`
}

// HasChoices reports whether the field is restricted to an enumerated set.
func (f Field) HasChoices() bool {
	return len(f.Choices) > 0
}

var fields = []Field{
	{Key: KeyDepartment, Label: "Department", Choices: []string{"Manassas", "FCPS", "Culmore"}},
	{Key: KeyVendor, Label: "Vendor"},
	{Key: KeyItem, Label: "Item Name"},
	{Key: KeyLocation, Label: "Location", Choices: []string{"Cabinet", "Front Desk", "Hall Bathroom", "Lab", "Kitchen Cabinet", "Team Room", "Other"}},
	{Key: KeyUnit, Label: "Unit (e.g., Box, Bottle)"},
	{Key: KeyQty, Label: "Qty"},
	{Key: KeyParLevel, Label: "Par Level"},
	{Key: KeyValue, Label: "Value per Unit ($)"},
	{Key: KeyFrequency, Label: "Frequency (e.g., Monthly, Weekly)"},
	{Key: KeyDateOrdered, Label: "Date Ordered"},
	{Key: KeyTotalCost, Label: "Total Cost"},
}

// Fields returns the canonical field list in display order.
// Callers must not mutate the returned slice.
func Fields() []Field {
	return fields
}

// Keys returns the field keys in canonical order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// Lookup returns the field definition for a key.
func Lookup(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
