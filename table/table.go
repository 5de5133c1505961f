package table

import (
	"slices"

	"github.com/alxndrkalinin/copairs/metadata"
)

// Table is an immutable, column-oriented snapshot of sample metadata.
//
// Rows are addressed by their position (0..NumRows-1). The original index
// labels are kept separately so callers can map positions back to their
// source frame.
type Table struct {
	names   []string
	columns map[string][]metadata.Value
	index   []metadata.Value
	nrows   int
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.nrows }

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string { return slices.Clone(t.names) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the cells of a column.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Column(name string) ([]metadata.Value, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// Value returns a single cell. It panics if the column or row does not exist.
func (t *Table) Value(column string, row int) metadata.Value {
	return t.columns[column][row]
}

// Index returns the original index label of every row.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Index() []metadata.Value { return t.index }

// Row returns one row as a Document.
func (t *Table) Row(row int) metadata.Document {
	doc := make(metadata.Document, len(t.names))
	for _, name := range t.names {
		doc[name] = t.columns[name][row]
	}
	return doc
}

// Select returns a table restricted to the named columns, in the given order.
// The index is preserved. Cells are shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	var missing []string
	seen := make(map[string]struct{}, len(names))
	out := &Table{
		columns: make(map[string][]metadata.Value, len(names)),
		index:   t.index,
		nrows:   t.nrows,
	}
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		col, ok := t.columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out.names = append(out.names, name)
		out.columns[name] = col
	}
	if len(missing) > 0 {
		return nil, &UnknownColumnError{Columns: missing}
	}
	return out, nil
}

// Explode returns a long-format table with one row per (row, label) of a
// set-valued column, and for every new row the position of its source row.
//
// Scalar cells yield one row. Missing cells yield one row holding the
// missing value so that later validation can report them. The exploded
// table gets a fresh positional index; the returned slice maps back.
func (t *Table) Explode(column string) (*Table, []int, error) {
	col, ok := t.columns[column]
	if !ok {
		return nil, nil, &UnknownColumnError{Columns: []string{column}}
	}

	var source []int
	exploded := make([]metadata.Value, 0, t.nrows)
	for row, cell := range col {
		if cell.IsMissing() {
			source = append(source, row)
			exploded = append(exploded, metadata.Null())
			continue
		}
		for _, label := range cell.Labels() {
			source = append(source, row)
			exploded = append(exploded, label)
		}
	}

	out := &Table{
		names:   slices.Clone(t.names),
		columns: make(map[string][]metadata.Value, len(t.names)),
		index:   make([]metadata.Value, len(source)),
		nrows:   len(source),
	}
	for _, name := range t.names {
		if name == column {
			out.columns[name] = exploded
			continue
		}
		src := t.columns[name]
		dst := make([]metadata.Value, len(source))
		for i, row := range source {
			dst[i] = src[row]
		}
		out.columns[name] = dst
	}
	for i := range source {
		out.index[i] = metadata.Int(int64(i))
	}
	return out, source, nil
}
