package table

import (
	"fmt"

	"github.com/alxndrkalinin/copairs/metadata"
)

// Builder accumulates rows and produces an immutable Table.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	names   []string
	pos     map[string]int
	columns [][]metadata.Value
	index   []metadata.Value
	err     error
}

// NewBuilder creates a builder for the given column names.
func NewBuilder(names ...string) *Builder {
	b := &Builder{
		names:   names,
		pos:     make(map[string]int, len(names)),
		columns: make([][]metadata.Value, len(names)),
	}
	for i, name := range names {
		if _, dup := b.pos[name]; dup {
			b.err = fmt.Errorf("table: duplicate column %q", name)
		}
		b.pos[name] = i
	}
	return b
}

// Append adds a row given positionally, one value per column.
func (b *Builder) Append(values ...metadata.Value) *Builder {
	if b.err != nil {
		return b
	}
	if len(values) != len(b.names) {
		b.err = fmt.Errorf("table: row %d has %d values, expected %d", b.rows(), len(values), len(b.names))
		return b
	}
	for i, v := range values {
		b.columns[i] = append(b.columns[i], v)
	}
	return b
}

// AppendAny adds a row of plain Go values converted with metadata.FromAny.
func (b *Builder) AppendAny(values ...any) *Builder {
	if b.err != nil {
		return b
	}
	row := make([]metadata.Value, len(values))
	for i, v := range values {
		vv, err := metadata.FromAny(v)
		if err != nil {
			b.err = fmt.Errorf("table: row %d: %w", b.rows(), err)
			return b
		}
		row[i] = vv
	}
	return b.Append(row...)
}

// AppendDocument adds a row keyed by column name. Columns absent from the
// document are stored as null.
func (b *Builder) AppendDocument(doc metadata.Document) *Builder {
	if b.err != nil {
		return b
	}
	for name := range doc {
		if _, ok := b.pos[name]; !ok {
			b.err = &UnknownColumnError{Columns: []string{name}}
			return b
		}
	}
	row := make([]metadata.Value, len(b.names))
	for i, name := range b.names {
		v, ok := doc[name]
		if !ok {
			v = metadata.Null()
		}
		row[i] = v
	}
	return b.Append(row...)
}

// SetIndex sets the original index labels. When unset, rows are labelled
// 0..n-1 in insertion order.
func (b *Builder) SetIndex(index []metadata.Value) *Builder {
	b.index = index
	return b
}

// Build validates the accumulated rows and returns the table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	n := b.rows()
	index := b.index
	if index == nil {
		index = make([]metadata.Value, n)
		for i := range index {
			index[i] = metadata.Int(int64(i))
		}
	}
	if len(index) != n {
		return nil, &ColumnLengthError{Column: "<index>", Length: len(index), Expected: n}
	}

	t := &Table{
		names:   append([]string(nil), b.names...),
		columns: make(map[string][]metadata.Value, len(b.names)),
		index:   index,
		nrows:   n,
	}
	for i, name := range b.names {
		t.columns[name] = b.columns[i]
	}
	return t, nil
}

func (b *Builder) rows() int {
	if len(b.columns) == 0 {
		return len(b.index)
	}
	return len(b.columns[0])
}

// FromColumns builds a table from parallel column slices.
func FromColumns(names []string, columns [][]metadata.Value) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("table: %d names for %d columns", len(names), len(columns))
	}
	t := &Table{
		names:   make([]string, 0, len(names)),
		columns: make(map[string][]metadata.Value, len(names)),
	}
	for i, name := range names {
		if _, dup := t.columns[name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", name)
		}
		if i > 0 && len(columns[i]) != len(columns[0]) {
			return nil, &ColumnLengthError{Column: name, Length: len(columns[i]), Expected: len(columns[0])}
		}
		t.names = append(t.names, name)
		t.columns[name] = columns[i]
	}
	if len(columns) > 0 {
		t.nrows = len(columns[0])
	}
	t.index = make([]metadata.Value, t.nrows)
	for i := range t.index {
		t.index[i] = metadata.Int(int64(i))
	}
	return t, nil
}
