package prometheus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alxndrkalinin/copairs"
	"github.com/alxndrkalinin/copairs/table"
)

func TestCollectorWithMatcher(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	b := table.NewBuilder("compound", "plate")
	for i := range 240 {
		b.AppendAny(i%6, i%4)
	}
	tbl, err := b.Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"compound", "plate"}, 3,
		copairs.WithMetricsCollector(c),
		copairs.WithMaxGroupSize(10),
	)
	require.NoError(t, err)

	ctx := context.Background()
	res, err := m.GetAllPairs(ctx, []string{"compound"}, []string{"plate"})
	require.NoError(t, err)

	_, err = m.NullPairs(ctx, []string{"plate"}, 4)
	require.NoError(t, err)

	assert.Equal(t, float64(6), testutil.ToFloat64(c.groups))
	assert.Equal(t, float64(res.Len()), testutil.ToFloat64(c.pairs))
	assert.Equal(t, float64(6), testutil.ToFloat64(c.clips))
	assert.Equal(t, float64(6*30), testutil.ToFloat64(c.clippedRows))

	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
	assert.Equal(t, 1, testutil.CollectAndCount(c.nullTries))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "copairs_pairs_total")
	assert.Contains(t, names, "copairs_operation_latency_seconds")
}

func TestCollectorErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg, WithNamespace("test"), WithConstLabels(prometheus.Labels{"run": "a"}))

	c.RecordPairs(3, 9, time.Millisecond, errors.New("boom"))
	assert.Zero(t, testutil.ToFloat64(c.pairs))
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))

	c.RecordClip(4, 8)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.clips))
	assert.Zero(t, testutil.ToFloat64(c.clippedRows))

	_, err := New(reg, WithNamespace("test"), WithConstLabels(prometheus.Labels{"run": "a"}))
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)

	assert.Panics(t, func() {
		MustNew(reg, WithNamespace("test"), WithConstLabels(prometheus.Labels{"run": "a"}))
	})
}
