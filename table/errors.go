package table

import (
	"fmt"
	"strings"
)

// UnknownColumnError is returned when a requested column does not exist.
type UnknownColumnError struct {
	Columns []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("table: unknown columns [%s]", strings.Join(e.Columns, ", "))
}

// ColumnLengthError is returned when a column does not match the row count.
type ColumnLengthError struct {
	Column   string
	Length   int
	Expected int
}

func (e *ColumnLengthError) Error() string {
	return fmt.Sprintf("table: column %q has %d rows, expected %d", e.Column, e.Length, e.Expected)
}

// UnsupportedTypeError is returned when an Arrow column type has no metadata equivalent.
type UnsupportedTypeError struct {
	Column string
	Type   string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("table: column %q has unsupported type %s", e.Column, e.Type)
}
