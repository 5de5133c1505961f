package grouping

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/metadata"
)

// MissingValueError is returned when a grouped column has a missing cell.
type MissingValueError struct {
	Column string
	Row    int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("column %q has a missing value at row %d", e.Column, e.Row)
}

// UnknownColumnError is returned when the grouped column does not exist.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// ReverseIndex maps every distinct value of one column to the rows holding it.
//
// Architecture:
//   - values/bitmaps: one posting list per distinct value, in first-seen order
//   - keys: value key -> position in values/bitmaps
//   - rowGroups: row -> positions of the values it holds (one for scalar
//     columns, one per label for set-valued columns)
//
// A ReverseIndex is immutable once built and safe for concurrent reads.
// Bitmaps it returns are shared and must not be modified.
type ReverseIndex struct {
	name      string
	values    []metadata.Value
	keys      map[string]int32
	bitmaps   []*roaring.Bitmap
	rowGroups [][]int32
	multi     bool
}

// Name returns the column the index was built from.
func (ri *ReverseIndex) Name() string { return ri.name }

// Len returns the number of distinct values.
func (ri *ReverseIndex) Len() int { return len(ri.values) }

// NumRows returns the number of rows the index covers.
func (ri *ReverseIndex) NumRows() int { return len(ri.rowGroups) }

// Multi reports whether any row belongs to more than one value.
func (ri *ReverseIndex) Multi() bool { return ri.multi }

// Value returns the i-th distinct value in first-seen order.
func (ri *ReverseIndex) Value(i int) metadata.Value { return ri.values[i] }

// Bitmap returns the rows holding the i-th distinct value.
func (ri *ReverseIndex) Bitmap(i int) *roaring.Bitmap { return ri.bitmaps[i] }

// Rows returns the rows holding v, or nil when no row does.
func (ri *ReverseIndex) Rows(v metadata.Value) *roaring.Bitmap {
	i, ok := ri.keys[v.Key()]
	if !ok {
		return nil
	}
	return ri.bitmaps[i]
}

// Memberships returns the positions of the values a row holds.
func (ri *ReverseIndex) Memberships(row rowindex.ID) []int32 { return ri.rowGroups[row] }

// Matching returns the rows sharing at least one value with row, row included.
func (ri *ReverseIndex) Matching(row rowindex.ID) *roaring.Bitmap {
	groups := ri.rowGroups[row]
	if len(groups) == 1 {
		return ri.bitmaps[groups[0]]
	}
	out := roaring.New()
	for _, g := range groups {
		out.Or(ri.bitmaps[g])
	}
	return out
}

// Same reports whether rows a and b share at least one value.
func (ri *ReverseIndex) Same(a, b rowindex.ID) bool {
	for _, ga := range ri.rowGroups[a] {
		for _, gb := range ri.rowGroups[b] {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

// IndexBuilder accumulates row memberships into a ReverseIndex.
//
// Rows must be added in ascending order.
type IndexBuilder struct {
	ri *ReverseIndex
}

// NewIndexBuilder creates a builder for a column with n rows.
func NewIndexBuilder(name string, n int) *IndexBuilder {
	return &IndexBuilder{ri: &ReverseIndex{
		name:      name,
		keys:      make(map[string]int32),
		rowGroups: make([][]int32, n),
	}}
}

// Add records that row holds value v. Adding the same value twice for a row
// is a no-op.
func (b *IndexBuilder) Add(row rowindex.ID, v metadata.Value) {
	ri := b.ri
	key := v.Key()
	g, ok := ri.keys[key]
	if !ok {
		g = int32(len(ri.values))
		ri.keys[key] = g
		ri.values = append(ri.values, v)
		ri.bitmaps = append(ri.bitmaps, roaring.New())
	}
	if ri.bitmaps[g].CheckedAdd(row) {
		ri.rowGroups[row] = append(ri.rowGroups[row], g)
		if len(ri.rowGroups[row]) > 1 {
			ri.multi = true
		}
	}
}

// Finish returns the built index. The builder must not be used afterwards.
func (b *IndexBuilder) Finish() *ReverseIndex {
	for _, bm := range b.ri.bitmaps {
		bm.RunOptimize()
	}
	return b.ri
}

// BuildFunc builds the reverse index of a column.
type BuildFunc func(name string, values []metadata.Value) (*ReverseIndex, error)

// Build is the BuildFunc for scalar columns: every row holds exactly one value.
func Build(name string, values []metadata.Value) (*ReverseIndex, error) {
	b := NewIndexBuilder(name, len(values))
	for row, v := range values {
		if v.IsMissing() {
			return nil, &MissingValueError{Column: name, Row: row}
		}
		b.Add(rowindex.ID(row), v)
	}
	return b.Finish(), nil
}
