// Package review implements the human-in-the-loop half of bulk ingestion:
// the sequential confirmation queue for normalized rows and the manual cost
// allocator for McKesson statements. Both append accepted records to the
// session's inventory store.
package review

import (
	"errors"
	"time"

	"inventoryportal/internal/ingest"
	"inventoryportal/internal/inventory"
	"inventoryportal/internal/schema"
)

// ErrBatchComplete signals that every row of the batch has been confirmed.
var ErrBatchComplete = errors.New("review batch complete")

// displayLimit is the on-screen truncation length for long string values.
// Stored values are never truncated.
const displayLimit = 60

// Queue walks a fixed batch of normalized records one at a time. The batch
// is immutable after creation; every presented record must be confirmed
// (possibly edited) before the next appears. There is no skip.
type Queue struct {
	batch []inventory.Record
	index int
	store *inventory.Store
}

// NewQueue builds a queue over a normalized batch, committing confirmed
// records into store.
func NewQueue(batch []inventory.Record, store *inventory.Store) *Queue {
	return &Queue{batch: batch, store: store}
}

// Len returns the batch size.
func (q *Queue) Len() int { return len(q.batch) }

// Index returns the position of the record currently awaiting confirmation.
func (q *Queue) Index() int { return q.index }

// Done reports whether the whole batch has been confirmed.
func (q *Queue) Done() bool { return q.index >= len(q.batch) }

// Present returns the record awaiting confirmation, or ErrBatchComplete
// once the batch is exhausted.
func (q *Queue) Present() (inventory.Record, error) {
	if q.Done() {
		return inventory.Record{}, ErrBatchComplete
	}
	return q.batch[q.index], nil
}

// Confirm re-coerces the operator's edited field values, appends the
// resulting record to the store and advances to the next row. Edits pass
// through the same per-field policy as ingestion so a hand-typed quantity
// or date cannot bypass it.
func (q *Queue) Confirm(values map[string]string, now time.Time) (inventory.Record, error) {
	if q.Done() {
		return inventory.Record{}, ErrBatchComplete
	}
	rec := ingest.Normalize(values, now, ingest.Options{})
	q.store.Append(rec)
	q.index++
	return rec, nil
}

// DisplayValues renders a record's fields as strings for the review form,
// truncating long values for display. Truncation counts runes, not bytes,
// so a multi-byte character is never split. The underlying record is
// untouched.
func DisplayValues(rec inventory.Record) map[string]string {
	values := map[string]string{}
	for key, v := range recordStrings(rec) {
		if r := []rune(v); len(r) > displayLimit {
			v = string(r[:displayLimit]) + "..."
		}
		values[key] = v
	}
	return values
}

func recordStrings(rec inventory.Record) map[string]string {
	qty := ""
	if rec.Qty != nil {
		qty = itoa(*rec.Qty)
	}
	return map[string]string{
		schema.KeyDepartment:  rec.Department,
		schema.KeyVendor:      rec.Vendor,
		schema.KeyItem:        rec.Item,
		schema.KeyLocation:    rec.Location,
		schema.KeyUnit:        rec.Unit,
		schema.KeyQty:         qty,
		schema.KeyParLevel:    itoa(rec.ParLevel),
		schema.KeyValue:       ftoa(rec.Value),
		schema.KeyFrequency:   rec.Frequency,
		schema.KeyDateOrdered: rec.DateOrdered,
		schema.KeyTotalCost:   ftoa(rec.TotalCost),
	}
}
