package copairs

import (
	"context"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/alxndrkalinin/copairs/internal/enumerate"
	"github.com/alxndrkalinin/copairs/internal/grouping"
	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/internal/sampling"
	"github.com/alxndrkalinin/copairs/metadata"
	"github.com/alxndrkalinin/copairs/table"
)

// Query is a pair request.
//
// A pair is accepted when both rows agree on every Sameby column, agree on
// at least one SamebyAny column, differ on every Diffby column and differ on
// at least one DiffbyAny column. Groups are keyed by Sameby alone, so with
// an empty Sameby every pair lands in the single AllKey group.
type Query struct {
	Sameby    []string
	SamebyAny []string
	Diffby    []string
	DiffbyAny []string
}

func (q Query) columns() []string {
	return slices.Concat(q.Sameby, q.SamebyAny, q.Diffby, q.DiffbyAny)
}

// Matcher finds the row pairs of a table that satisfy sameby/diffby
// predicates over its scalar columns.
//
// A Matcher is built once from an immutable table snapshot and may answer
// any number of requests. It is safe for concurrent use.
type Matcher struct {
	*matcher
}

// New creates a Matcher tracking columns of tbl. The seed drives every
// randomized operation (capped cohorts, null pair draws).
//
// Construction fails with a *ConfigurationError when a tracked column does
// not exist or an option is invalid, and with a *DataError when the table
// index has duplicate or missing labels or a column violates the schema.
func New(tbl *table.Table, columns []string, seed int64, optFns ...Option) (*Matcher, error) {
	m, err := newMatcher(tbl, columns, seed, nil, optFns)
	if err != nil {
		return nil, err
	}
	return &Matcher{matcher: m}, nil
}

// matcher holds the state shared by Matcher and MatcherMultilabel.
type matcher struct {
	columns []string
	snap    *table.Table
	rows    *rowindex.Indexer
	grouper *grouping.Grouper
	sampler *sampling.Sampler
	enum    *enumerate.Enumerator
	opts    options
}

func newMatcher(tbl *table.Table, columns []string, seed int64, groupOpts []grouping.Option, optFns []Option) (*matcher, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if tbl == nil {
		return nil, configError("nil table")
	}
	if opts.maxGroupSize < 0 {
		return nil, configError("max group size must not be negative")
	}
	if opts.nullTries <= 0 {
		return nil, configError("null tries must be positive")
	}

	columns = dedupe(columns)
	snap, err := tbl.Select(columns...)
	if err != nil {
		return nil, translateError(err)
	}

	for _, c := range columns {
		values, _ := snap.Column(c)
		if err := opts.schema.ValidateColumn(c, values); err != nil {
			return nil, translateError(err)
		}
	}

	rows, err := rowindex.New(snap.Index())
	if err != nil {
		return nil, translateError(err)
	}

	sampler := sampling.New(seed)

	var enumOpts []enumerate.Option
	if opts.maxGroupSize > 0 {
		enumOpts = append(enumOpts, enumerate.WithMaxGroupSize(opts.maxGroupSize, sampler))
	}

	return &matcher{
		columns: columns,
		snap:    snap,
		rows:    rows,
		grouper: grouping.New(snap, groupOpts...),
		sampler: sampler,
		enum:    enumerate.New(enumOpts...),
		opts:    opts,
	}, nil
}

// Columns returns the tracked columns.
func (m *matcher) Columns() []string { return slices.Clone(m.columns) }

// NumRows returns the number of rows.
func (m *matcher) NumRows() int { return m.rows.Len() }

// Seed returns the seed the Matcher was built with.
func (m *matcher) Seed() int64 { return m.sampler.Seed() }

// IndexLabel returns the original table index label of a row id.
func (m *matcher) IndexLabel(row int) metadata.Value {
	return m.rows.Label(rowindex.ID(row))
}

// RowOf returns the row id carrying an original table index label.
func (m *matcher) RowOf(label metadata.Value) (int, bool) {
	id, ok := m.rows.Lookup(label)
	return int(id), ok
}

// GetAllPairs returns, per sameby group, the row pairs that agree on every
// sameby column and differ on every diffby column.
//
// With an empty sameby the whole table is one group keyed by AllKey; an empty
// diffby excludes nothing. Both empty is a *ConfigurationError, as are
// unknown columns and columns listed in both sets. A missing value in any
// referenced column is a *DataError.
func (m *matcher) GetAllPairs(ctx context.Context, sameby, diffby []string) (Result, error) {
	return m.GetPairs(ctx, Query{Sameby: sameby, Diffby: diffby})
}

// GetPairs answers q. It extends GetAllPairs with SamebyAny and DiffbyAny,
// each of which must name at least two columns when set.
func (m *matcher) GetPairs(ctx context.Context, q Query) (Result, error) {
	start := time.Now()
	logger := m.opts.logger.WithColumns(slices.Concat(q.Sameby, q.SamebyAny), slices.Concat(q.Diffby, q.DiffbyAny))

	res, groups, err := m.getPairs(ctx, q, logger)

	m.opts.metricsCollector.RecordPairs(groups, res.Len(), time.Since(start), err)
	logger.LogPairs(ctx, groups, res.Len(), err)

	return res, err
}

func (m *matcher) getPairs(ctx context.Context, q Query, logger *Logger) (Result, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := m.validate(q); err != nil {
		return nil, 0, err
	}

	groups, err := m.grouper.GroupBy(ctx, q.Sameby)
	if err != nil {
		return nil, 0, translateError(err)
	}

	c, err := m.constraint(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	cohorts, err := m.enum.Enumerate(ctx, groups, c)
	if err != nil {
		return nil, 0, translateError(err)
	}

	var res Result
	for _, co := range cohorts {
		key := keyOf(co.Group.Values)
		if co.Clipped {
			logger.LogSampling(ctx, key, co.Size, m.opts.maxGroupSize)
			m.opts.metricsCollector.RecordClip(co.Size, m.opts.maxGroupSize)
		}
		if len(co.Pairs) == 0 {
			continue
		}

		pairs := make([]Pair, len(co.Pairs))
		for i, p := range co.Pairs {
			pairs[i] = Pair{A: int(p.A), B: int(p.B)}
		}
		res = append(res, Group{Key: key, Pairs: pairs})
	}

	return res, len(cohorts), nil
}

func (m *matcher) constraint(ctx context.Context, q Query) (enumerate.Constraint, error) {
	var c enumerate.Constraint
	for _, part := range []struct {
		dst     *[]*grouping.ReverseIndex
		columns []string
	}{
		{&c.All, q.Diffby},
		{&c.Any, q.DiffbyAny},
		{&c.SameAny, q.SamebyAny},
	} {
		idx, err := m.grouper.Indexes(ctx, part.columns)
		if err != nil {
			return enumerate.Constraint{}, translateError(err)
		}
		*part.dst = idx
	}
	return c, nil
}

func (m *matcher) validate(q Query) error {
	if len(q.Sameby) == 0 && len(q.SamebyAny) == 0 && len(q.Diffby) == 0 && len(q.DiffbyAny) == 0 {
		return configError("sameby and diffby are both empty")
	}
	if len(q.SamebyAny) == 1 {
		return configError("sameby any needs at least two columns", q.SamebyAny...)
	}
	if len(q.DiffbyAny) == 1 {
		return configError("diffby any needs at least two columns", q.DiffbyAny...)
	}
	if err := m.checkColumns(q.columns()); err != nil {
		return err
	}

	var overlap []string
	for _, c := range slices.Concat(q.Sameby, q.SamebyAny) {
		if (slices.Contains(q.Diffby, c) || slices.Contains(q.DiffbyAny, c)) && !slices.Contains(overlap, c) {
			overlap = append(overlap, c)
		}
	}
	if len(overlap) > 0 {
		return configError("column in both sameby and diffby", overlap...)
	}

	if dup := duplicates(q.columns()); len(dup) > 0 {
		return configError("column listed more than once", dup...)
	}

	return nil
}

func (m *matcher) checkColumns(columns []string) error {
	var unknown []string
	for _, c := range columns {
		if !slices.Contains(m.columns, c) && !slices.Contains(unknown, c) {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return configError("unknown column", unknown...)
	}
	return nil
}

// SampleNullPair draws one random pair of rows that differ on every diffby
// column. A row without any valid partner is redrawn; after the configured
// number of tries (WithNullTries) it fails with ErrNoNullPair.
//
// Successive calls advance the Matcher's random stream, so a fresh Matcher
// with the same seed replays the same sequence of draws.
func (m *matcher) SampleNullPair(ctx context.Context, diffby []string) (Pair, error) {
	pairs, err := m.NullPairs(ctx, diffby, 1)
	if err != nil {
		return Pair{}, err
	}
	return pairs[0], nil
}

// NullPairs draws n pairs the way SampleNullPair does. Draws are independent
// and may repeat.
func (m *matcher) NullPairs(ctx context.Context, diffby []string, n int) ([]Pair, error) {
	if n < 0 {
		return nil, configError("null pair count must not be negative")
	}
	if err := m.checkColumns(diffby); err != nil {
		return nil, err
	}
	if dup := duplicates(diffby); len(dup) > 0 {
		return nil, configError("column listed more than once", dup...)
	}

	c, err := m.constraint(ctx, Query{Diffby: diffby})
	if err != nil {
		return nil, err
	}

	all := roaring.New()
	all.AddRange(0, uint64(m.NumRows()))
	candidates := func(a uint32) *roaring.Bitmap { return c.Partners(a, all) }

	out := make([]Pair, 0, n)
	for range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		a, b, tries, ok := m.sampler.NullPair(m.NumRows(), m.opts.nullTries, candidates)

		var err error
		if !ok {
			err = ErrNoNullPair
		}
		m.opts.metricsCollector.RecordNullSample(tries, time.Since(start), err)
		m.opts.logger.LogNullSample(ctx, tries, err)

		if err != nil {
			return nil, err
		}
		out = append(out, Pair{A: int(a), B: int(b)})
	}

	return out, nil
}

func dedupe(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func duplicates(columns []string) []string {
	var dup []string
	for i, c := range columns {
		if slices.Contains(columns[:i], c) && !slices.Contains(dup, c) {
			dup = append(dup, c)
		}
	}
	return dup
}
