package metadata

import (
	"fmt"
)

// FieldType defines the data type of a metadata column.
type FieldType uint8

const (
	FieldTypeAny FieldType = iota
	FieldTypeInt
	FieldTypeFloat
	FieldTypeString
	FieldTypeBool
	FieldTypeArray
)

// String returns the string representation of the FieldType.
func (t FieldType) String() string {
	switch t {
	case FieldTypeAny:
		return "Any"
	case FieldTypeInt:
		return "Int"
	case FieldTypeFloat:
		return "Float"
	case FieldTypeString:
		return "String"
	case FieldTypeBool:
		return "Bool"
	case FieldTypeArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// SchemaError reports a cell whose kind does not match the declared column type.
type SchemaError struct {
	Column   string
	Row      int
	Kind     Kind
	Expected FieldType
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q row %d has invalid type %s, expected %s", e.Column, e.Row, e.Kind, e.Expected)
}

// Schema defines the expected type of each named column.
// Columns not listed are unconstrained.
type Schema map[string]FieldType

// Validate checks if the given row conforms to the schema.
func (s Schema) Validate(row Document) error {
	if s == nil {
		return nil
	}
	for k, v := range row {
		expectedType, ok := s[k]
		if !ok {
			continue
		}

		if !checkKind(v.Kind, expectedType) {
			return &SchemaError{Column: k, Row: -1, Kind: v.Kind, Expected: expectedType}
		}
	}
	return nil
}

// ValidateColumn checks every cell of a column against the declared type.
// Missing cells are accepted here; whether they are allowed depends on the
// operation that later reads the column.
func (s Schema) ValidateColumn(name string, values []Value) error {
	if s == nil {
		return nil
	}
	expectedType, ok := s[name]
	if !ok {
		return nil
	}
	for i, v := range values {
		if !checkKind(v.Kind, expectedType) {
			return &SchemaError{Column: name, Row: i, Kind: v.Kind, Expected: expectedType}
		}
	}
	return nil
}

func checkKind(k Kind, expected FieldType) bool {
	if k == KindNull {
		return true
	}
	switch expected {
	case FieldTypeAny:
		return true
	case FieldTypeInt:
		return k == KindInt
	case FieldTypeFloat:
		return k == KindFloat || k == KindInt // Allow upgrading Int to Float
	case FieldTypeString:
		return k == KindString
	case FieldTypeBool:
		return k == KindBool
	case FieldTypeArray:
		return k == KindArray
	}
	return false
}
