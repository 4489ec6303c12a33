package inventory

import "errors"

var (
	// ErrIndexOutOfRange is returned for edits or deletes past the store.
	ErrIndexOutOfRange = errors.New("record index out of range")
	// ErrNothingToUndo is returned when the undo buffer is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Store is the session's ordered, index-addressable list of accepted
// records. A single-slot undo buffer holds the most recently deleted record
// and its original position; each delete overwrites it and each undo
// consumes it.
type Store struct {
	records []Record
	undo    *undoSlot
}

type undoSlot struct {
	record Record
	index  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// All returns a copy of the records in order.
func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record at index.
func (s *Store) Get(index int) (Record, error) {
	if index < 0 || index >= len(s.records) {
		return Record{}, ErrIndexOutOfRange
	}
	return s.records[index], nil
}

// Append adds a record at the end.
func (s *Store) Append(record Record) {
	s.records = append(s.records, record)
}

// Edit replaces the record at index. Total Cost is rederived as Qty × Value
// on every edit, discarding whatever total the caller supplied.
func (s *Store) Edit(index int, record Record) error {
	if index < 0 || index >= len(s.records) {
		return ErrIndexOutOfRange
	}
	record.TotalCost = record.DerivedTotal()
	record.CostAssumed = false
	s.records[index] = record
	return nil
}

// Delete removes the record at index and arms the undo buffer with it.
func (s *Store) Delete(index int) error {
	if index < 0 || index >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.undo = &undoSlot{record: s.records[index], index: index}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

// Undo reinserts the last deleted record at its original position, clamped
// to the current length if the store has shrunk below it. Valid once per
// delete; returns the index the record landed at.
func (s *Store) Undo() (int, error) {
	if s.undo == nil {
		return 0, ErrNothingToUndo
	}
	index := s.undo.index
	if index > len(s.records) {
		index = len(s.records)
	}
	s.records = append(s.records, Record{})
	copy(s.records[index+1:], s.records[index:])
	s.records[index] = s.undo.record
	s.undo = nil
	return index, nil
}

// CanUndo reports whether the undo buffer is armed.
func (s *Store) CanUndo() bool {
	return s.undo != nil
}

// Summary captures the headline figures shown above the inventory table.
type Summary struct {
	Count     int     `json:"count"`
	TotalCost float64 `json:"totalCost"`
}

// Summarize returns the record count and the total estimated cost. Records
// with a zero stored cost but a usable quantity contribute Qty × Value, the
// same recomputation the table view applies.
func (s *Store) Summarize() Summary {
	summary := Summary{Count: len(s.records)}
	for _, r := range s.records {
		cost := r.TotalCost
		if cost == 0 && r.Qty != nil {
			cost = r.DerivedTotal()
		}
		summary.TotalCost += cost
	}
	return summary
}
