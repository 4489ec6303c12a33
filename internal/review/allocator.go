package review

import (
	"errors"
	"strconv"
	"time"

	"inventoryportal/internal/ingest"
	"inventoryportal/internal/inventory"
)

var (
	// ErrAllocationNotPositive rejects zero and negative allocations.
	ErrAllocationNotPositive = errors.New("allocated cost must be greater than zero")
	// ErrAllocationTooLarge rejects allocations above the row's remainder.
	ErrAllocationTooLarge = errors.New("allocated cost exceeds remaining total")
	// ErrRunComplete signals that every statement row has been passed.
	ErrRunComplete = errors.New("allocation run complete")
)

// AllocationRun splits the totals of a McKesson statement across manually
// described line items, one statement row at a time. A row stays open for
// further allocations until the operator advances; an unallocated remainder
// is forfeited on advance, which Advance reports but does not prevent.
type AllocationRun struct {
	rows      []ingest.McKessonRow
	remaining []float64
	index     int
	store     *inventory.Store
}

// RowState is the operator's view of the open statement row.
type RowState struct {
	Index         int     `json:"index"`
	DateOrdered   string  `json:"dateOrdered"`
	OriginalTotal float64 `json:"originalTotal"`
	Remaining     float64 `json:"remaining"`
	RowCount      int     `json:"rowCount"`
}

// NewAllocationRun starts an allocation run over the statement rows,
// committing allocated records into store.
func NewAllocationRun(rows []ingest.McKessonRow, store *inventory.Store) *AllocationRun {
	remaining := make([]float64, len(rows))
	for i, row := range rows {
		remaining[i] = row.TotalCost
	}
	return &AllocationRun{rows: rows, remaining: remaining, store: store}
}

// Done reports whether every statement row has been advanced past.
func (r *AllocationRun) Done() bool { return r.index >= len(r.rows) }

// Current returns the open statement row and its remaining total.
func (r *AllocationRun) Current() (RowState, error) {
	if r.Done() {
		return RowState{}, ErrRunComplete
	}
	return RowState{
		Index:         r.index,
		DateOrdered:   r.rows[r.index].DateOrdered,
		OriginalTotal: r.rows[r.index].TotalCost,
		Remaining:     r.remaining[r.index],
		RowCount:      len(r.rows),
	}, nil
}

// Allocate creates one inventory record from the operator's manual fields,
// carrying the open row's date and Total Cost = amount, and decrements the
// row's remainder. Rejected allocations leave both the remainder and the
// store unchanged.
func (r *AllocationRun) Allocate(values map[string]string, amount float64, now time.Time) (inventory.Record, error) {
	if r.Done() {
		return inventory.Record{}, ErrRunComplete
	}
	if amount <= 0 {
		return inventory.Record{}, ErrAllocationNotPositive
	}
	if amount > r.remaining[r.index] {
		return inventory.Record{}, ErrAllocationTooLarge
	}

	rec := ingest.Normalize(values, now, ingest.Options{})
	rec.DateOrdered = r.rows[r.index].DateOrdered
	rec.TotalCost = amount
	rec.CostAssumed = false

	r.store.Append(rec)
	r.remaining[r.index] -= amount
	return rec, nil
}

// Advance closes the open row and moves to the next one, returning the
// forfeited remainder (zero when fully allocated).
func (r *AllocationRun) Advance() (forfeited float64, err error) {
	if r.Done() {
		return 0, ErrRunComplete
	}
	forfeited = r.remaining[r.index]
	r.index++
	return forfeited, nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
