// Package multilabel expands a set-valued column into per-label membership.
//
// The expansion is the long format of the column: row r is a member of the
// posting list of every label it carries. Rows keep their compact
// identifiers; only the key space of the column changes. Grouping on an
// expanded column therefore yields one group per label, and a diffby on it
// accepts a pair only when the two label sets are disjoint.
package multilabel

import (
	"github.com/alxndrkalinin/copairs/internal/grouping"
	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/metadata"
)

// Expand is a grouping.BuildFunc for set-valued columns. Labels are ordered
// by first appearance. A scalar cell is a set of one. A missing or empty
// cell, or a missing label inside a set, fails with
// *grouping.MissingValueError.
func Expand(name string, values []metadata.Value) (*grouping.ReverseIndex, error) {
	b := grouping.NewIndexBuilder(name, len(values))
	for row, v := range values {
		if v.IsMissing() {
			return nil, &grouping.MissingValueError{Column: name, Row: row}
		}
		for _, label := range v.Labels() {
			if label.IsMissing() {
				return nil, &grouping.MissingValueError{Column: name, Row: row}
			}
			b.Add(rowindex.ID(row), label)
		}
	}
	return b.Finish(), nil
}

// Option registers Expand as the index builder of column.
func Option(column string) grouping.Option {
	return grouping.WithBuilder(column, Expand)
}

// LongLen returns the number of (row, label) memberships, the row count of
// the exploded table.
func LongLen(ri *grouping.ReverseIndex) int {
	n := 0
	for row := range ri.NumRows() {
		n += len(ri.Memberships(rowindex.ID(row)))
	}
	return n
}

// Labels returns the labels of the column in first-appearance order.
func Labels(ri *grouping.ReverseIndex) []metadata.Value {
	out := make([]metadata.Value, ri.Len())
	for i := range out {
		out[i] = ri.Value(i)
	}
	return out
}
