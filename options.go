package copairs

import (
	"github.com/alxndrkalinin/copairs/metadata"
)

// DefaultNullTries is the number of draws SampleNullPair attempts before
// giving up.
const DefaultNullTries = 5

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	maxGroupSize     int
	nullTries        int
	schema           metadata.Schema
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		nullTries:        DefaultNullTries,
	}
}

// Option configures Matcher and MatcherMultilabel construction.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &copairs.BasicMetricsCollector{}
//	m, _ := copairs.New(tbl, columns, 0, copairs.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Pairs: %d\n", stats.PairCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMaxGroupSize caps the number of rows a sameby cohort may contribute.
// Larger cohorts are subsampled without replacement using the Matcher's
// seed, so results stay reproducible. Zero (the default) disables the cap.
// Negative values are rejected by the constructor.
func WithMaxGroupSize(n int) Option {
	return func(o *options) {
		o.maxGroupSize = n
	}
}

// WithNullTries sets how many draws SampleNullPair attempts before it
// returns ErrNoNullPair. Must be positive.
func WithNullTries(n int) Option {
	return func(o *options) {
		o.nullTries = n
	}
}

// WithSchema validates the tracked columns against schema at construction.
// Columns the schema does not mention are not checked.
func WithSchema(schema metadata.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}
