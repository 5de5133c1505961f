package copairs

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordPairs is called after each pair enumeration.
	// groups is the number of cohorts with at least two rows, pairs the
	// number of accepted pairs, err is nil if successful.
	RecordPairs(groups, pairs int, duration time.Duration, err error)

	// RecordClip is called for every cohort subsampled down to limit rows.
	RecordClip(size, limit int)

	// RecordNullSample is called after each null pair draw.
	// tries is the number of attempts used.
	RecordNullSample(tries int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPairs(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClip(int, int)                        {}
func (NoopMetricsCollector) RecordNullSample(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EnumerateCount      atomic.Int64
	EnumerateErrors     atomic.Int64
	EnumerateTotalNanos atomic.Int64
	GroupCount          atomic.Int64
	PairCount           atomic.Int64
	ClipCount           atomic.Int64
	ClippedRows         atomic.Int64
	NullSampleCount     atomic.Int64
	NullSampleErrors    atomic.Int64
	NullSampleTries     atomic.Int64
}

// RecordPairs implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPairs(groups, pairs int, duration time.Duration, err error) {
	b.EnumerateCount.Add(1)
	b.EnumerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EnumerateErrors.Add(1)
		return
	}
	b.GroupCount.Add(int64(groups))
	b.PairCount.Add(int64(pairs))
}

// RecordClip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClip(size, limit int) {
	b.ClipCount.Add(1)
	b.ClippedRows.Add(int64(size - limit))
}

// RecordNullSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNullSample(tries int, duration time.Duration, err error) {
	b.NullSampleCount.Add(1)
	b.NullSampleTries.Add(int64(tries))
	if err != nil {
		b.NullSampleErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EnumerateCount:    b.EnumerateCount.Load(),
		EnumerateErrors:   b.EnumerateErrors.Load(),
		EnumerateAvgNanos: b.getAvgEnumerateNanos(),
		GroupCount:        b.GroupCount.Load(),
		PairCount:         b.PairCount.Load(),
		ClipCount:         b.ClipCount.Load(),
		ClippedRows:       b.ClippedRows.Load(),
		NullSampleCount:   b.NullSampleCount.Load(),
		NullSampleErrors:  b.NullSampleErrors.Load(),
		NullSampleTries:   b.NullSampleTries.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgEnumerateNanos() int64 {
	count := b.EnumerateCount.Load()
	if count == 0 {
		return 0
	}
	return b.EnumerateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EnumerateCount    int64
	EnumerateErrors   int64
	EnumerateAvgNanos int64
	GroupCount        int64
	PairCount         int64
	ClipCount         int64
	ClippedRows       int64
	NullSampleCount   int64
	NullSampleErrors  int64
	NullSampleTries   int64
}
