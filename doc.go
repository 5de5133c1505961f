// Package copairs finds the row pairs of an annotated sample table that are
// eligible for comparison.
//
// A pair request names two column sets: sameby, on which both rows must hold
// equal values, and diffby, on which they must hold different values (every
// diffby column independently). Pairs are returned per sameby group, so the
// work is bounded by the sum of squared group sizes rather than the square of
// the table size.
//
// # Quick Start
//
//	tbl, _ := table.NewBuilder("plate", "well", "label").
//	    AppendAny("p1", "w1", "t4").
//	    AppendAny("p2", "w3", "t4").
//	    Build()
//
//	m, _ := copairs.New(tbl, []string{"plate", "well", "label"}, 0)
//	res, _ := m.GetAllPairs(ctx, []string{"label"}, []string{"plate", "well"})
//	for _, g := range res {
//	    fmt.Println(g.Key, g.Pairs)
//	}
//
// # Multilabel Columns
//
// MatcherMultilabel handles a column whose cells are label sets. Grouping on
// it yields one group per label; a pair sharing several labels is listed once
// under each of them:
//
//	mm, _ := copairs.NewMultilabel(tbl, []string{"plate"}, "moa", 0)
//	res, _ := mm.GetAllPairs(ctx, []string{"moa"}, []string{"plate"})
//
// # Determinism
//
// Row ids are 0-based positions in table order. Groups are ordered by their
// smallest row id and pairs by (A, B), so identical inputs always produce
// identical results. The mandatory seed drives the randomized operations:
// WithMaxGroupSize subsampling and null pair draws (SampleNullPair,
// NullPairs).
//
// # Errors
//
// Invalid requests fail with *ConfigurationError (errors.Is
// ErrInvalidConfiguration); unusable table content fails with *DataError
// (errors.Is ErrInvalidData).
//
// # Export
//
// Results can be written to local disk, memory, MinIO or S3 with the pairio
// package, encoded by a codec and optionally compressed with zstd or lz4.
package copairs
