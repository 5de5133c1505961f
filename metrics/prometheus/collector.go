// Package prometheus exports copairs metrics through client_golang.
//
//	c, err := prometheus.New(registry)
//	m, err := copairs.New(tbl, cols, seed, copairs.WithMetricsCollector(c))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alxndrkalinin/copairs"
)

var _ copairs.MetricsCollector = (*Collector)(nil)

// Collector implements copairs.MetricsCollector with Prometheus metrics.
type Collector struct {
	latency     *prometheus.HistogramVec
	groups      prometheus.Counter
	pairs       prometheus.Counter
	clips       prometheus.Counter
	clippedRows prometheus.Counter
	nullTries   prometheus.Histogram
}

type options struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric name prefix. Default: "copairs".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithConstLabels attaches fixed labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) { o.constLabels = labels }
}

// WithBuckets sets the latency histogram buckets. Default: prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	o := options{
		namespace: "copairs",
		buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of pair enumeration and null pair sampling",
			Buckets:     o.buckets,
			ConstLabels: o.constLabels,
		}, []string{"op", "status"}),
		groups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "groups_total",
			Help:        "Sameby cohorts with at least two rows",
			ConstLabels: o.constLabels,
		}),
		pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "pairs_total",
			Help:        "Pairs returned by enumeration",
			ConstLabels: o.constLabels,
		}),
		clips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "clipped_groups_total",
			Help:        "Cohorts subsampled to the maximum group size",
			ConstLabels: o.constLabels,
		}),
		clippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "clipped_rows_total",
			Help:        "Rows dropped by cohort subsampling",
			ConstLabels: o.constLabels,
		}),
		nullTries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "null_sample_tries",
			Help:        "Draws needed per null pair",
			Buckets:     prometheus.LinearBuckets(1, 1, 10),
			ConstLabels: o.constLabels,
		}),
	}

	for _, m := range []prometheus.Collector{c.latency, c.groups, c.pairs, c.clips, c.clippedRows, c.nullTries} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, optFns ...Option) *Collector {
	c, err := New(reg, optFns...)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordPairs implements copairs.MetricsCollector.
func (c *Collector) RecordPairs(groups, pairs int, d time.Duration, err error) {
	c.latency.WithLabelValues("enumerate", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.groups.Add(float64(groups))
	c.pairs.Add(float64(pairs))
}

// RecordClip implements copairs.MetricsCollector.
func (c *Collector) RecordClip(size, limit int) {
	c.clips.Inc()
	if size > limit {
		c.clippedRows.Add(float64(size - limit))
	}
}

// RecordNullSample implements copairs.MetricsCollector.
func (c *Collector) RecordNullSample(tries int, d time.Duration, err error) {
	c.latency.WithLabelValues("null_sample", status(err)).Observe(d.Seconds())
	c.nullTries.Observe(float64(tries))
}
