// Package rowindex assigns the positional row identifiers the engine works on.
//
// Identifiers are dense and 0-based in table iteration order. They never
// depend on hash ordering, so pair output is stable across runs.
package rowindex

import (
	"fmt"
	"math"

	"github.com/alxndrkalinin/copairs/metadata"
)

// ID is a dense, 0-based row identifier.
type ID = uint32

// MaxRows is the largest number of rows an Indexer can address.
const MaxRows uint64 = math.MaxUint32

// DuplicateIndexError is returned when two rows share an original index label.
type DuplicateIndexError struct {
	Label  metadata.Value
	First  int
	Second int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("duplicate index label %s at rows %d and %d", e.Label, e.First, e.Second)
}

// MissingIndexError is returned when a row has no original index label.
type MissingIndexError struct {
	Row int
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("missing index label at row %d", e.Row)
}

// TooManyRowsError is returned when a table exceeds MaxRows.
type TooManyRowsError struct {
	Rows int
}

func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("table has %d rows, at most %d are supported", e.Rows, MaxRows)
}

// Indexer maps row identifiers to original index labels and back.
type Indexer struct {
	labels  []metadata.Value
	byLabel map[string]ID
}

// New builds an Indexer over the given original index labels.
func New(labels []metadata.Value) (*Indexer, error) {
	if uint64(len(labels)) > MaxRows {
		return nil, &TooManyRowsError{Rows: len(labels)}
	}
	idx := &Indexer{
		labels:  labels,
		byLabel: make(map[string]ID, len(labels)),
	}
	for row, label := range labels {
		if label.IsMissing() {
			return nil, &MissingIndexError{Row: row}
		}
		key := label.Key()
		if first, dup := idx.byLabel[key]; dup {
			return nil, &DuplicateIndexError{Label: label, First: int(first), Second: row}
		}
		idx.byLabel[key] = ID(row)
	}
	return idx, nil
}

// Len returns the number of rows.
func (x *Indexer) Len() int { return len(x.labels) }

// Label returns the original index label of a row.
func (x *Indexer) Label(id ID) metadata.Value { return x.labels[id] }

// Lookup returns the row identifier carrying an original index label.
func (x *Indexer) Lookup(label metadata.Value) (ID, bool) {
	id, ok := x.byLabel[label.Key()]
	return id, ok
}

// All returns every identifier in ascending order.
func (x *Indexer) All() []ID {
	ids := make([]ID, len(x.labels))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}
