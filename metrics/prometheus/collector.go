// Package prometheus exports paramgrid metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := pgprom.NewCollector(pgprom.WithRegisterer(reg))
//	params := paramgrid.New(grid, paramgrid.WithMetricsCollector(collector))
package prometheus

import (
	"time"

	"github.com/hupe1980/paramgrid"
	"github.com/hupe1980/paramgrid/store"
	"github.com/prometheus/client_golang/prometheus"
)

var _ paramgrid.MetricsCollector = (*Collector)(nil)

// Options configures a Collector.
type Options struct {
	Namespace  string
	Registerer prometheus.Registerer
	Buckets    []float64
}

// Option configures a Collector.
type Option func(*Options)

// WithNamespace sets the metric namespace. Defaults to "paramgrid".
func WithNamespace(ns string) Option {
	return func(o *Options) { o.Namespace = ns }
}

// WithRegisterer sets the registerer. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *Options) { o.Registerer = r }
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(b []float64) Option {
	return func(o *Options) { o.Buckets = b }
}

// Collector implements paramgrid.MetricsCollector on Prometheus vectors.
type Collector struct {
	latency     *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	records     *prometheus.CounterVec
	results     *prometheus.HistogramVec
	indexBuilds *prometheus.CounterVec
	indexSize   *prometheus.GaugeVec
}

// NewCollector creates and registers a Collector.
func NewCollector(optFns ...Option) (*Collector, error) {
	opts := Options{
		Namespace:  "paramgrid",
		Registerer: prometheus.DefaultRegisterer,
		Buckets:    prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of parameter operations",
			Buckets:   opts.Buckets,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "operations_total",
			Help:      "Total parameter operations",
		}, []string{"op", "param", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "adjusted_records_total",
			Help:      "Records changed by adjustments",
		}, []string{"param", "change"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "query_results",
			Help:      "Records matched per query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"param"}),
		indexBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "index",
			Name:      "builds_total",
			Help:      "Total lazy index builds",
		}, []string{"type", "status"}),
		indexSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Subsystem: "index",
			Name:      "entries",
			Help:      "Entries of the most recently built index per label",
		}, []string{"type", "label"}),
	}

	for _, col := range []prometheus.Collector{c.latency, c.operations, c.records, c.results, c.indexBuilds, c.indexSize} {
		if err := opts.Registerer.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op, param string, d time.Duration, err error) {
	s := status(err)
	c.latency.WithLabelValues(op, s).Observe(d.Seconds())
	c.operations.WithLabelValues(op, param, s).Inc()
}

// RecordQuery implements paramgrid.MetricsCollector.
func (c *Collector) RecordQuery(param string, results int, d time.Duration, err error) {
	c.observe("query", param, d, err)
	if err == nil {
		c.results.WithLabelValues(param).Observe(float64(results))
	}
}

// RecordAdjust implements paramgrid.MetricsCollector.
func (c *Collector) RecordAdjust(param string, stats store.MergeStats, d time.Duration, err error) {
	c.observe("adjust", param, d, err)
	if err != nil {
		return
	}
	c.records.WithLabelValues(param, "updated").Add(float64(stats.Updated))
	c.records.WithLabelValues(param, "deleted").Add(float64(stats.Deleted + stats.Replaced))
	c.records.WithLabelValues(param, "appended").Add(float64(stats.Appended))
}

// RecordArray implements paramgrid.MetricsCollector.
func (c *Collector) RecordArray(param string, cells int, d time.Duration, err error) {
	c.observe("array", param, d, err)
}

// RecordIndexBuild implements paramgrid.MetricsCollector.
func (c *Collector) RecordIndexBuild(indexType, label string, entries int, d time.Duration, err error) {
	c.indexBuilds.WithLabelValues(indexType, status(err)).Inc()
	if err == nil {
		c.indexSize.WithLabelValues(indexType, label).Set(float64(entries))
	}
}
