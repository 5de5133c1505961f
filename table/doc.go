// Package table provides the immutable sample table the matchers read from.
//
// A Table is column-oriented: each named column is a []metadata.Value with
// one cell per row, and rows are addressed by position. The original index
// labels of the source frame travel with the table so pair row ids can be
// mapped back.
//
// Tables are built with a Builder,
//
//	tbl, err := table.NewBuilder("plate", "well", "label").
//	    AppendAny("p1", "A01", "taxol").
//	    AppendAny("p1", "A02", "dmso").
//	    Build()
//
// from parallel column slices with FromColumns, or from an Arrow record with
// FromArrow. List-typed Arrow columns become set-valued cells for
// multilabel matching.
//
// Tables must not be mutated after a matcher has been built from them.
package table
