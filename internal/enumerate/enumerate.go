// Package enumerate produces the row pairs of each sameby cohort that pass
// the diffby constraints.
//
// Work is scoped to cohorts: a cohort of size g costs O(g²) bitmap
// operations at worst, so the total is bounded by the sum of squared cohort
// sizes rather than the square of the table size. Diffby columns act as
// anti-joins against their reverse indexes.
package enumerate

import (
	"context"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/alxndrkalinin/copairs/internal/grouping"
	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/internal/sampling"
)

// Pair is a canonical row pair with A < B.
type Pair struct {
	A, B rowindex.ID
}

// Cohort is one sameby group together with its accepted pairs.
type Cohort struct {
	Group grouping.Group
	Pairs []Pair

	// Size is the cohort size before clipping.
	Size int
	// Clipped reports whether the cohort was subsampled.
	Clipped bool
}

// Constraint is the part of a request checked pair by pair inside a cohort.
type Constraint struct {
	// All holds columns on which every pair must differ.
	All []*grouping.ReverseIndex
	// Any holds columns on which every pair must differ in at least one.
	Any []*grouping.ReverseIndex
	// SameAny holds columns on which every pair must agree in at least one.
	SameAny []*grouping.ReverseIndex
}

// Empty reports whether the constraint excludes nothing.
func (c Constraint) Empty() bool {
	return len(c.All) == 0 && len(c.Any) == 0 && len(c.SameAny) == 0
}

// Candidates returns the rows of within that are greater than a and satisfy
// the constraint against a.
func (c Constraint) Candidates(a rowindex.ID, within *roaring.Bitmap) *roaring.Bitmap {
	cand := within.Clone()
	cand.RemoveRange(0, uint64(a)+1)
	c.exclude(a, cand)
	return cand
}

// Partners returns every row of within, other than a, that satisfies the
// constraint against a.
func (c Constraint) Partners(a rowindex.ID, within *roaring.Bitmap) *roaring.Bitmap {
	cand := within.Clone()
	cand.Remove(a)
	c.exclude(a, cand)
	return cand
}

// Accepts reports whether rows a and b satisfy the constraint.
func (c Constraint) Accepts(a, b rowindex.ID) bool {
	if len(c.SameAny) > 0 && !slices.ContainsFunc(c.SameAny, func(ri *grouping.ReverseIndex) bool {
		return ri.Same(a, b)
	}) {
		return false
	}
	for _, ri := range c.All {
		if ri.Same(a, b) {
			return false
		}
	}
	if len(c.Any) == 0 {
		return true
	}
	for _, ri := range c.Any {
		if !ri.Same(a, b) {
			return true
		}
	}
	return false
}

func (c Constraint) exclude(a rowindex.ID, cand *roaring.Bitmap) {
	if len(c.SameAny) > 0 {
		same := roaring.New()
		for _, ri := range c.SameAny {
			same.Or(ri.Matching(a))
		}
		cand.And(same)
	}

	for _, ri := range c.All {
		if cand.IsEmpty() {
			return
		}
		cand.AndNot(ri.Matching(a))
	}

	if len(c.Any) == 0 || cand.IsEmpty() {
		return
	}

	same := c.Any[0].Matching(a).Clone()
	for _, ri := range c.Any[1:] {
		same.And(ri.Matching(a))
	}
	cand.AndNot(same)
}

// Enumerator turns sameby groups into cohorts of accepted pairs.
type Enumerator struct {
	maxGroupSize int
	sampler      *sampling.Sampler
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithMaxGroupSize subsamples cohorts larger than n rows using s.
func WithMaxGroupSize(n int, s *sampling.Sampler) Option {
	return func(e *Enumerator) {
		e.maxGroupSize = n
		e.sampler = s
	}
}

// New creates an Enumerator.
func New(optFns ...Option) *Enumerator {
	e := &Enumerator{}
	for _, fn := range optFns {
		fn(e)
	}
	return e
}

// Enumerate returns one cohort per group of at least two rows, in the order
// of groups. Pairs within a cohort are ordered by (A, B). A cohort whose
// pairs are all rejected is kept with no pairs.
//
// The context is checked between groups.
func (e *Enumerator) Enumerate(ctx context.Context, groups []grouping.Group, c Constraint) ([]Cohort, error) {
	cohorts := make([]Cohort, 0, len(groups))

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		size := int(g.Rows.GetCardinality())
		if size < 2 {
			continue
		}

		rows := g.Rows
		clipped := false
		if e.sampler != nil && e.maxGroupSize > 0 && size > e.maxGroupSize {
			rows = e.sampler.Clip(rows, e.maxGroupSize, uint64(i))
			clipped = true
		}

		cohorts = append(cohorts, Cohort{
			Group:   grouping.Group{Values: g.Values, Rows: rows},
			Pairs:   pairs(rows, c),
			Size:    size,
			Clipped: clipped,
		})
	}

	return cohorts, nil
}

func pairs(rows *roaring.Bitmap, c Constraint) []Pair {
	var out []Pair

	it := rows.Iterator()
	for it.HasNext() {
		a := it.Next()
		out = appendPairs(out, a, c.Candidates(a, rows))
	}

	return out
}

func appendPairs(out []Pair, a rowindex.ID, partners *roaring.Bitmap) []Pair {
	it := partners.Iterator()
	for it.HasNext() {
		out = append(out, Pair{A: a, B: it.Next()})
	}
	return out
}
