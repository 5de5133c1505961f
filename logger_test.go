package copairs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alxndrkalinin/copairs"
	"github.com/alxndrkalinin/copairs/table"
)

func TestLoggerRecordsEnumeration(t *testing.T) {
	var buf bytes.Buffer
	logger := copairs.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl, err := table.NewBuilder("plate", "label").
		AppendAny("p1", "t1").
		AppendAny("p2", "t1").
		AppendAny("p3", "t1").
		Build()
	require.NoError(t, err)

	m, err := copairs.New(tbl, []string{"plate", "label"}, 0,
		copairs.WithLogger(logger),
		copairs.WithMaxGroupSize(2),
	)
	require.NoError(t, err)

	_, err = m.GetAllPairs(context.Background(), []string{"label"}, []string{"plate"})
	require.NoError(t, err)

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)

	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, "t1", records[0]["key"])
	assert.InDelta(t, 3, records[0]["size"], 0)

	assert.Equal(t, "pair enumeration completed", records[1]["msg"])
	assert.InDelta(t, 1, records[1]["pairs"], 0)
	assert.Equal(t, []any{"label"}, records[1]["sameby"])
}

func TestNoopLogger(t *testing.T) {
	l := copairs.NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))

	// nil falls back to the no-op logger.
	_, err := copairs.New(newLayout(t), layoutColumns, 0, copairs.WithLogger(nil))
	require.NoError(t, err)
}
