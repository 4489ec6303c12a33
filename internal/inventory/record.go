// Package inventory holds the session's accepted inventory records and the
// ordered in-memory store they live in. Records never leave process memory;
// the portal has no persistence layer.
package inventory

import "inventoryportal/internal/schema"

// DateLayout is the stored format of Date Ordered values.
const DateLayout = "2006-01-02"

// Record is one accepted inventory line item. Qty is a pointer so that an
// unparseable source quantity stays unset instead of collapsing to zero;
// derived-cost logic must skip unset quantities.
type Record struct {
	Department  string  `json:"department"`
	Vendor      string  `json:"vendor"`
	Item        string  `json:"item"`
	Location    string  `json:"location"`
	Unit        string  `json:"unit"`
	Qty         *int    `json:"qty"`
	ParLevel    int     `json:"parLevel"`
	Value       float64 `json:"value"`
	Frequency   string  `json:"frequency"`
	DateOrdered string  `json:"dateOrdered"`
	TotalCost   float64 `json:"totalCost"`

	// CostAssumed marks a record whose total cost fell back to the unit
	// value because the source row had no usable quantity. Surfaced during
	// review so the operator can correct it.
	CostAssumed bool `json:"costAssumed,omitempty"`
}

// QtyOrZero returns the quantity, treating unset as zero.
func (r Record) QtyOrZero() int {
	if r.Qty == nil {
		return 0
	}
	return *r.Qty
}

// DerivedTotal is Qty × Value with an unset Qty counting as zero.
func (r Record) DerivedTotal() float64 {
	return float64(r.QtyOrZero()) * r.Value
}

// Values returns the record's cell values in canonical field order, ready
// for a workbook row.
func (r Record) Values() []interface{} {
	values := make([]interface{}, 0, len(schema.Keys()))
	for _, key := range schema.Keys() {
		switch key {
		case schema.KeyDepartment:
			values = append(values, r.Department)
		case schema.KeyVendor:
			values = append(values, r.Vendor)
		case schema.KeyItem:
			values = append(values, r.Item)
		case schema.KeyLocation:
			values = append(values, r.Location)
		case schema.KeyUnit:
			values = append(values, r.Unit)
		case schema.KeyQty:
			values = append(values, r.QtyOrZero())
		case schema.KeyParLevel:
			values = append(values, r.ParLevel)
		case schema.KeyValue:
			values = append(values, r.Value)
		case schema.KeyFrequency:
			values = append(values, r.Frequency)
		case schema.KeyDateOrdered:
			values = append(values, r.DateOrdered)
		case schema.KeyTotalCost:
			values = append(values, r.TotalCost)
		}
	}
	return values
}
