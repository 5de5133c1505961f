package copairs_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alxndrkalinin/copairs"
	"github.com/alxndrkalinin/copairs/metadata"
	"github.com/alxndrkalinin/copairs/table"
)

// plateLayout is 3 plates x 5 wells x 4 labels, deduplicated and sorted by
// plate, well and label.
var plateLayout = [][3]string{
	{"p1", "w1", "t4"},
	{"p1", "w2", "t1"},
	{"p1", "w2", "t4"},
	{"p1", "w3", "t2"},
	{"p1", "w4", "t1"},
	{"p1", "w4", "t3"},
	{"p1", "w5", "t2"},
	{"p2", "w1", "t1"},
	{"p2", "w1", "t3"},
	{"p2", "w2", "t2"},
	{"p2", "w3", "t1"},
	{"p2", "w3", "t3"},
	{"p2", "w4", "t2"},
	{"p2", "w5", "t3"},
	{"p3", "w3", "t4"},
	{"p3", "w4", "t1"},
	{"p3", "w4", "t2"},
	{"p3", "w4", "t4"},
	{"p3", "w5", "t1"},
	{"p3", "w5", "t3"},
}

var layoutColumns = []string{"plate", "well", "label"}

func newLayout(t *testing.T) *table.Table {
	t.Helper()
	b := table.NewBuilder(layoutColumns...)
	for _, r := range plateLayout {
		b.AppendAny(r[0], r[1], r[2])
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func TestGetAllPairsWorkedScenario(t *testing.T) {
	m, err := copairs.New(newLayout(t), layoutColumns, 0)
	require.NoError(t, err)

	res, err := m.GetAllPairs(context.Background(), []string{"label"}, []string{"plate", "well"})
	require.NoError(t, err)

	pairs, ok := res.Lookup(copairs.ScalarKey(metadata.String("t4")))
	require.True(t, ok)
	assert.Equal(t, []copairs.Pair{{A: 0, B: 14}, {A: 0, B: 17}, {A: 2, B: 14}, {A: 2, B: 17}}, pairs)

	var keys []string
	for _, k := range res.Keys() {
		assert.Equal(t, copairs.KeyScalar, k.Kind())
		keys = append(keys, k.String())
	}
	assert.Equal(t, []string{"t4", "t1", "t2", "t3"}, keys)
}

func TestGetAllPairsKeys(t *testing.T) {
	m, err := copairs.New(newLayout(t), layoutColumns, 0)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("tuple", func(t *testing.T) {
		res, err := m.GetAllPairs(ctx, []string{"plate", "label"}, []string{"well"})
		require.NoError(t, err)
		require.NotEmpty(t, res)

		first := res[0]
		assert.Equal(t, copairs.KeyTuple, first.Key.Kind())
		assert.Equal(t, "(p1, t4)", first.Key.String())
		assert.Equal(t, []copairs.Pair{{A: 0, B: 2}}, first.Pairs)
	})

	t.Run("empty sameby", func(t *testing.T) {
		res, err := m.GetAllPairs(ctx, nil, []string{"plate", "well", "label"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, copairs.KeyAll, res[0].Key.Kind())
		assert.Equal(t, "*", res[0].Key.String())
	})

	t.Run("empty diffby", func(t *testing.T) {
		res, err := m.GetAllPairs(ctx, []string{"plate", "well"}, nil)
		require.NoError(t, err)
		// Wells holding two labels: p1/w2, p1/w4, p2/w1, p2/w3, p3/w4 (3 rows), p3/w5.
		assert.Equal(t, 1+1+1+1+3+1, res.Len())
	})
}

func randomTable(t *testing.T, seed uint64, n int) *table.Table {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 0))
	b := table.NewBuilder("plate", "well", "label", "dose")
	for range n {
		b.AppendAny(
			fmt.Sprintf("p%d", rng.IntN(3)),
			fmt.Sprintf("w%d", rng.IntN(6)),
			fmt.Sprintf("t%d", rng.IntN(5)),
			rng.IntN(3),
		)
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

type rowPair struct{ a, b int }

func scan(tbl *table.Table, sameby, diffby []string) map[rowPair]bool {
	out := make(map[rowPair]bool)
	n := tbl.NumRows()
	for a := range n {
	next:
		for b := a + 1; b < n; b++ {
			for _, c := range sameby {
				if !metadata.Equal(tbl.Value(c, a), tbl.Value(c, b)) {
					continue next
				}
			}
			for _, c := range diffby {
				if metadata.Equal(tbl.Value(c, a), tbl.Value(c, b)) {
					continue next
				}
			}
			out[rowPair{a, b}] = true
		}
	}
	return out
}

func TestGetAllPairsExhaustive(t *testing.T) {
	requests := []struct{ sameby, diffby []string }{
		{[]string{"label"}, []string{"plate", "well"}},
		{[]string{"label"}, []string{"plate"}},
		{[]string{"label", "dose"}, []string{"well"}},
		{[]string{"plate"}, nil},
		{nil, []string{"plate", "label"}},
		{[]string{"dose"}, []string{"plate", "well", "label"}},
	}

	for seed := uint64(1); seed <= 3; seed++ {
		tbl := randomTable(t, seed, 80)
		m, err := copairs.New(tbl, []string{"plate", "well", "label", "dose"}, int64(seed))
		require.NoError(t, err)

		for _, req := range requests {
			t.Run(fmt.Sprintf("seed=%d/%v/%v", seed, req.sameby, req.diffby), func(t *testing.T) {
				res, err := m.GetAllPairs(context.Background(), req.sameby, req.diffby)
				require.NoError(t, err)

				got := make(map[rowPair]bool)
				for _, g := range res {
					require.NotEmpty(t, g.Pairs)
					for _, p := range g.Pairs {
						require.Less(t, p.A, p.B)
						require.False(t, got[rowPair{p.A, p.B}], "pair %v listed twice", p)
						got[rowPair{p.A, p.B}] = true

						for i, c := range req.sameby {
							assert.True(t, metadata.Equal(g.Key.Values()[i], tbl.Value(c, p.A)))
						}
					}
				}

				assert.Equal(t, scan(tbl, req.sameby, req.diffby), got)
			})
		}
	}
}

func TestGetAllPairsDeterministic(t *testing.T) {
	tbl := randomTable(t, 11, 120)
	columns := []string{"plate", "well", "label", "dose"}
	ctx := context.Background()

	m1, err := copairs.New(tbl, columns, 5, copairs.WithMaxGroupSize(8))
	require.NoError(t, err)
	m2, err := copairs.New(tbl, columns, 5, copairs.WithMaxGroupSize(8))
	require.NoError(t, err)

	first, err := m1.GetAllPairs(ctx, []string{"label"}, []string{"plate"})
	require.NoError(t, err)

	_, err = m1.SampleNullPair(ctx, []string{"label"})
	require.NoError(t, err)

	again, err := m1.GetAllPairs(ctx, []string{"label"}, []string{"plate"})
	require.NoError(t, err)
	other, err := m2.GetAllPairs(ctx, []string{"label"}, []string{"plate"})
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, first, other)
}

func TestMaxGroupSize(t *testing.T) {
	tbl := randomTable(t, 4, 100)
	metrics := &copairs.BasicMetricsCollector{}

	m, err := copairs.New(tbl, []string{"plate", "label"}, 1,
		copairs.WithMaxGroupSize(5),
		copairs.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	res, err := m.GetAllPairs(context.Background(), []string{"label"}, []string{"plate"})
	require.NoError(t, err)

	for _, g := range res {
		rows := make(map[int]bool)
		for _, p := range g.Pairs {
			rows[p.A] = true
			rows[p.B] = true
			assert.False(t, metadata.Equal(tbl.Value("plate", p.A), tbl.Value("plate", p.B)))
		}
		assert.LessOrEqual(t, len(rows), 5)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.EnumerateCount)
	assert.Positive(t, stats.ClipCount)
	assert.Equal(t, int64(res.Len()), stats.PairCount)
}

func TestDiffbyAny(t *testing.T) {
	m, err := copairs.New(newLayout(t), layoutColumns, 0)
	require.NoError(t, err)

	res, err := m.GetPairs(context.Background(), copairs.Query{
		Sameby:    []string{"label"},
		DiffbyAny: []string{"plate", "well"},
	})
	require.NoError(t, err)

	// Every t4 pair differs on plate or well.
	pairs, ok := res.Lookup(copairs.ScalarKey(metadata.String("t4")))
	require.True(t, ok)
	assert.Len(t, pairs, 6)

	_, err = m.GetPairs(context.Background(), copairs.Query{Sameby: []string{"label"}, DiffbyAny: []string{"plate"}})
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)
}

func TestSamebyAny(t *testing.T) {
	tbl, err := table.NewBuilder("plate", "well", "label").
		AppendAny("p1", "w1", "t1").
		AppendAny("p1", "w2", "t2").
		AppendAny("p2", "w1", "t3").
		AppendAny("p2", "w2", "t1").
		AppendAny("p3", "w3", "t2").
		Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"plate", "well", "label"}, 0)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := m.GetPairs(ctx, copairs.Query{
		SamebyAny: []string{"plate", "well"},
		Diffby:    []string{"label"},
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, copairs.KeyAll, res[0].Key.Kind())
	assert.Equal(t, []copairs.Pair{{A: 0, B: 1}, {A: 0, B: 2}, {A: 1, B: 3}, {A: 2, B: 3}}, res[0].Pairs)

	tests := []struct {
		name string
		q    copairs.Query
	}{
		{"one column", copairs.Query{SamebyAny: []string{"plate"}}},
		{"overlap with diffby", copairs.Query{SamebyAny: []string{"plate", "well"}, Diffby: []string{"well"}}},
		{"duplicate with sameby", copairs.Query{Sameby: []string{"plate"}, SamebyAny: []string{"plate", "well"}}},
		{"unknown", copairs.Query{SamebyAny: []string{"plate", "dose"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.GetPairs(ctx, tt.q)
			assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)
		})
	}
}

func TestSamebyAnyNarrowsCohorts(t *testing.T) {
	m, err := copairs.New(newLayout(t), layoutColumns, 0)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := m.GetPairs(ctx, copairs.Query{
		Sameby:    []string{"label"},
		SamebyAny: []string{"plate", "well"},
	})
	require.NoError(t, err)

	all, err := m.GetAllPairs(ctx, []string{"label"}, nil)
	require.NoError(t, err)

	var want copairs.Result
	for _, g := range all {
		var kept []copairs.Pair
		for _, p := range g.Pairs {
			a, b := plateLayout[p.A], plateLayout[p.B]
			if a[0] == b[0] || a[1] == b[1] {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			want = append(want, copairs.Group{Key: g.Key, Pairs: kept})
		}
	}

	require.NotEmpty(t, want)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Key.Equal(got[i].Key))
		assert.Equal(t, want[i].Pairs, got[i].Pairs)
	}
}

func TestGetAllPairsErrors(t *testing.T) {
	m, err := copairs.New(newLayout(t), []string{"plate", "well", "label"}, 0)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name   string
		sameby []string
		diffby []string
	}{
		{"both empty", nil, nil},
		{"unknown sameby", []string{"batch"}, []string{"plate"}},
		{"unknown diffby", []string{"label"}, []string{"dose"}},
		{"overlap", []string{"label", "plate"}, []string{"plate"}},
		{"duplicate", []string{"label"}, []string{"plate", "plate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.GetAllPairs(ctx, tt.sameby, tt.diffby)
			require.Error(t, err)

			var ce *copairs.ConfigurationError
			assert.True(t, errors.As(err, &ce))
			assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)
			assert.NotErrorIs(t, err, copairs.ErrInvalidData)
		})
	}
}

func TestGetAllPairsMissingValue(t *testing.T) {
	tbl, err := table.NewBuilder("plate", "label").
		AppendAny("p1", "t1").
		AppendAny(nil, "t1").
		Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"plate", "label"}, 0)
	require.NoError(t, err)

	_, err = m.GetAllPairs(context.Background(), []string{"label"}, []string{"plate"})

	var de *copairs.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "plate", de.Column)
	assert.Equal(t, 1, de.Row)
	assert.ErrorIs(t, err, copairs.ErrInvalidData)
	assert.NotNil(t, errors.Unwrap(err))

	// Columns not referenced by the request may hold missing values.
	res, err := m.GetAllPairs(context.Background(), []string{"label"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
}

func TestNewErrors(t *testing.T) {
	tbl := newLayout(t)

	_, err := copairs.New(tbl, []string{"plate", "batch"}, 0)
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)

	_, err = copairs.New(nil, nil, 0)
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)

	_, err = copairs.New(tbl, layoutColumns, 0, copairs.WithMaxGroupSize(-1))
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)

	_, err = copairs.New(tbl, layoutColumns, 0, copairs.WithNullTries(0))
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)

	dup, err := table.NewBuilder("plate").
		AppendAny("p1").
		AppendAny("p2").
		SetIndex([]metadata.Value{metadata.String("a"), metadata.String("a")}).
		Build()
	require.NoError(t, err)
	_, err = copairs.New(dup, []string{"plate"}, 0)
	var de *copairs.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Row)

	_, err = copairs.New(tbl, layoutColumns, 0, copairs.WithSchema(metadata.Schema{"plate": metadata.FieldTypeInt}))
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "plate", de.Column)
	assert.Equal(t, 0, de.Row)
}

func TestEmptyTable(t *testing.T) {
	tbl, err := table.NewBuilder("plate", "label").Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"plate", "label"}, 0)
	require.NoError(t, err)

	res, err := m.GetAllPairs(context.Background(), []string{"label"}, []string{"plate"})
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = m.SampleNullPair(context.Background(), []string{"plate"})
	assert.ErrorIs(t, err, copairs.ErrNoNullPair)
}

func TestIndexBackReference(t *testing.T) {
	tbl, err := table.NewBuilder("label").
		AppendAny("t1").
		AppendAny("t1").
		SetIndex([]metadata.Value{metadata.String("well-7"), metadata.String("well-3")}).
		Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"label"}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, m.NumRows())
	assert.Equal(t, "well-3", m.IndexLabel(1).StringValue())
	row, ok := m.RowOf(metadata.String("well-7"))
	require.True(t, ok)
	assert.Equal(t, 0, row)
}

func TestSampleNullPair(t *testing.T) {
	tbl := newLayout(t)
	ctx := context.Background()

	m, err := copairs.New(tbl, layoutColumns, 3)
	require.NoError(t, err)

	pairs, err := m.NullPairs(ctx, []string{"plate", "label"}, 25)
	require.NoError(t, err)
	require.Len(t, pairs, 25)
	for _, p := range pairs {
		assert.Less(t, p.A, p.B)
		assert.NotEqual(t, tbl.Value("plate", p.A), tbl.Value("plate", p.B))
		assert.NotEqual(t, tbl.Value("label", p.A), tbl.Value("label", p.B))
	}

	replay, err := copairs.New(tbl, layoutColumns, 3)
	require.NoError(t, err)
	again, err := replay.NullPairs(ctx, []string{"plate", "label"}, 25)
	require.NoError(t, err)
	assert.Equal(t, pairs, again)

	_, err = m.SampleNullPair(ctx, []string{"batch"})
	assert.ErrorIs(t, err, copairs.ErrInvalidConfiguration)
}

func TestSampleNullPairExhausted(t *testing.T) {
	tbl, err := table.NewBuilder("plate").
		AppendAny("p1").
		AppendAny("p1").
		AppendAny("p1").
		Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"plate"}, 0, copairs.WithNullTries(3))
	require.NoError(t, err)

	_, err = m.SampleNullPair(context.Background(), []string{"plate"})
	assert.ErrorIs(t, err, copairs.ErrNoNullPair)
}

func TestGetAllPairsCanceled(t *testing.T) {
	m, err := copairs.New(newLayout(t), layoutColumns, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.GetAllPairs(ctx, []string{"label"}, []string{"plate"})
	assert.ErrorIs(t, err, context.Canceled)
}
