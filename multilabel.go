package copairs

import (
	"slices"

	"github.com/alxndrkalinin/copairs/internal/grouping"
	"github.com/alxndrkalinin/copairs/internal/multilabel"
	"github.com/alxndrkalinin/copairs/metadata"
	"github.com/alxndrkalinin/copairs/table"
)

// MatcherMultilabel is a Matcher whose designated column holds a set of
// labels per row.
//
// When sameby includes the multilabel column, two rows are "same" on it if
// their label sets share a label, and the result is keyed per shared label:
// a pair sharing k labels is listed under each of the k keys that pass the
// diffby predicate. When diffby includes it, the two label sets must be
// disjoint. Pair row ids are the ids of the compact (unexploded) table.
type MatcherMultilabel struct {
	*matcher
	column string
}

// NewMultilabel creates a MatcherMultilabel over tbl. multilabelColumn is
// tracked even when columns does not list it. Its cells are KindArray sets;
// a scalar cell counts as a set of one. An empty set is a missing value.
func NewMultilabel(tbl *table.Table, columns []string, multilabelColumn string, seed int64, optFns ...Option) (*MatcherMultilabel, error) {
	if multilabelColumn == "" {
		return nil, configError("multilabel column must be named")
	}
	if !slices.Contains(columns, multilabelColumn) {
		columns = append(slices.Clone(columns), multilabelColumn)
	}

	m, err := newMatcher(tbl, columns, seed, []grouping.Option{multilabel.Option(multilabelColumn)}, optFns)
	if err != nil {
		return nil, err
	}

	return &MatcherMultilabel{matcher: m, column: multilabelColumn}, nil
}

// MultilabelColumn returns the name of the set-valued column.
func (m *MatcherMultilabel) MultilabelColumn() string { return m.column }

// Labels returns the distinct labels of the multilabel column in order of
// first appearance.
func (m *MatcherMultilabel) Labels() ([]metadata.Value, error) {
	ri, err := m.grouper.Index(m.column)
	if err != nil {
		return nil, translateError(err)
	}
	return multilabel.Labels(ri), nil
}

// ExplodedLen returns the number of (row, label) memberships, the row count
// of the table exploded on the multilabel column.
func (m *MatcherMultilabel) ExplodedLen() (int, error) {
	ri, err := m.grouper.Index(m.column)
	if err != nil {
		return 0, translateError(err)
	}
	return multilabel.LongLen(ri), nil
}
