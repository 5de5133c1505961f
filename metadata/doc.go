// Package metadata provides the typed cell values used by copairs tables.
//
// # Value Types
//
// Cells can be:
//
//   - String: metadata.String("plate_1")
//   - Int: metadata.Int(384)
//   - Float: metadata.Float(0.5)
//   - Bool: metadata.Bool(true)
//   - Array: metadata.Strings("DMSO", "taxol") for multilabel columns
//   - Null: metadata.Null() for missing cells
//
// Strings are interned with the unique package, so repeated category labels
// (plate names, compound ids) cost one allocation per distinct value.
//
// # Equality
//
// Grouping and exclusion are driven by Value.Key: two values share a key
// exactly when Equal reports true. Missing values (null, NaN, empty sets)
// never compare equal and are rejected by the matchers.
//
// # Schemas
//
// A Schema declares the expected FieldType of selected columns:
//
//	schema := metadata.Schema{
//	    "plate": metadata.FieldTypeString,
//	    "well":  metadata.FieldTypeString,
//	    "moa":   metadata.FieldTypeArray,
//	}
package metadata
