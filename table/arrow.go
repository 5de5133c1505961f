package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/alxndrkalinin/copairs/metadata"
)

type arrowOptions struct {
	indexColumn string
	columns     []string
}

// ArrowOption configures FromArrow.
type ArrowOption func(*arrowOptions)

// WithIndexColumn uses the named column as the original index instead of
// positional labels. The column is not exposed as a metadata column.
func WithIndexColumn(name string) ArrowOption {
	return func(o *arrowOptions) {
		o.indexColumn = name
	}
}

// WithArrowColumns restricts conversion to the named columns.
func WithArrowColumns(names ...string) ArrowOption {
	return func(o *arrowOptions) {
		o.columns = names
	}
}

// FromArrow converts an Arrow record into a Table.
//
// Supported column types are strings, signed and unsigned integers, floats,
// booleans, dictionary-encoded strings, and lists of those (which become
// set-valued cells). Arrow nulls become metadata.Null.
func FromArrow(rec arrow.Record, optFns ...ArrowOption) (*Table, error) {
	var opts arrowOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	schema := rec.Schema()
	nrows := int(rec.NumRows())

	wanted := opts.columns
	if wanted == nil {
		for _, f := range schema.Fields() {
			if f.Name != opts.indexColumn {
				wanted = append(wanted, f.Name)
			}
		}
	}

	var missing []string
	names := make([]string, 0, len(wanted))
	columns := make([][]metadata.Value, 0, len(wanted))
	for _, name := range wanted {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			missing = append(missing, name)
			continue
		}
		col, err := convertArray(name, rec.Column(idx[0]), nrows)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		columns = append(columns, col)
	}
	if len(missing) > 0 {
		return nil, &UnknownColumnError{Columns: missing}
	}

	t, err := FromColumns(names, columns)
	if err != nil {
		return nil, err
	}
	t.nrows = nrows

	if opts.indexColumn == "" {
		if len(t.index) != nrows {
			t.index = make([]metadata.Value, nrows)
			for i := range t.index {
				t.index[i] = metadata.Int(int64(i))
			}
		}
		return t, nil
	}

	idx := schema.FieldIndices(opts.indexColumn)
	if len(idx) == 0 {
		return nil, &UnknownColumnError{Columns: []string{opts.indexColumn}}
	}
	index, err := convertArray(opts.indexColumn, rec.Column(idx[0]), nrows)
	if err != nil {
		return nil, err
	}
	t.index = index
	return t, nil
}

func convertArray(name string, arr arrow.Array, nrows int) ([]metadata.Value, error) {
	if arr.Len() != nrows {
		return nil, &ColumnLengthError{Column: name, Length: arr.Len(), Expected: nrows}
	}
	out := make([]metadata.Value, nrows)
	for i := range nrows {
		v, ok := cellAt(arr, i)
		if !ok {
			return nil, &UnsupportedTypeError{Column: name, Type: arr.DataType().String()}
		}
		out[i] = v
	}
	return out, nil
}

// cellAt converts the i-th element of arr. The second result is false when
// the array type is not supported.
func cellAt(arr arrow.Array, i int) (metadata.Value, bool) {
	if arr.IsNull(i) {
		return metadata.Null(), true
	}
	switch a := arr.(type) {
	case *array.String:
		return metadata.String(a.Value(i)), true
	case *array.LargeString:
		return metadata.String(a.Value(i)), true
	case *array.Int8:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Int16:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Int32:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Int64:
		return metadata.Int(a.Value(i)), true
	case *array.Uint8:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Uint16:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Uint32:
		return metadata.Int(int64(a.Value(i))), true
	case *array.Float32:
		return metadata.Float(float64(a.Value(i))), true
	case *array.Float64:
		return metadata.Float(a.Value(i)), true
	case *array.Boolean:
		return metadata.Bool(a.Value(i)), true
	case *array.Dictionary:
		return cellAt(a.Dictionary(), a.GetValueIndex(i))
	case *array.List:
		start, end := a.ValueOffsets(i)
		return listCell(a.ListValues(), start, end)
	case *array.LargeList:
		start, end := a.ValueOffsets(i)
		return listCell(a.ListValues(), start, end)
	default:
		return metadata.Value{}, false
	}
}

func listCell(values arrow.Array, start, end int64) (metadata.Value, bool) {
	items := make([]metadata.Value, 0, end-start)
	for j := start; j < end; j++ {
		v, ok := cellAt(values, int(j))
		if !ok {
			return metadata.Value{}, false
		}
		items = append(items, v)
	}
	return metadata.Array(items), true
}
