package paramgrid

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/paramgrid/store"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the metrics/prometheus package).
type MetricsCollector interface {
	// RecordQuery is called after each selection.
	// results is the number of matched records, err is nil if successful.
	RecordQuery(param string, results int, duration time.Duration, err error)

	// RecordAdjust is called once per parameter after each adjustment.
	RecordAdjust(param string, stats store.MergeStats, duration time.Duration, err error)

	// RecordArray is called after each dense conversion.
	// cells is the size of the produced or consumed array.
	RecordArray(param string, cells int, duration time.Duration, err error)

	// RecordIndexBuild is called when a store lazily builds an index.
	RecordIndexBuild(indexType, label string, entries int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(string, int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordAdjust(string, store.MergeStats, time.Duration, error) {}
func (NoopMetricsCollector) RecordArray(string, int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordIndexBuild(string, string, int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryTotalNanos  atomic.Int64
	AdjustCount      atomic.Int64
	AdjustErrors     atomic.Int64
	RecordsUpdated   atomic.Int64
	RecordsDeleted   atomic.Int64
	RecordsAppended  atomic.Int64
	ArrayCount       atomic.Int64
	ArrayErrors      atomic.Int64
	IndexBuilds      atomic.Int64
	IndexBuildErrors atomic.Int64
	IndexBuildNanos  atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(param string, results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordAdjust implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdjust(param string, stats store.MergeStats, duration time.Duration, err error) {
	b.AdjustCount.Add(1)
	if err != nil {
		b.AdjustErrors.Add(1)
		return
	}
	b.RecordsUpdated.Add(int64(stats.Updated))
	b.RecordsDeleted.Add(int64(stats.Deleted + stats.Replaced))
	b.RecordsAppended.Add(int64(stats.Appended))
}

// RecordArray implements MetricsCollector.
func (b *BasicMetricsCollector) RecordArray(param string, cells int, duration time.Duration, err error) {
	b.ArrayCount.Add(1)
	if err != nil {
		b.ArrayErrors.Add(1)
	}
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(indexType, label string, entries int, duration time.Duration, err error) {
	b.IndexBuilds.Add(1)
	b.IndexBuildNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexBuildErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:       b.QueryCount.Load(),
		QueryErrors:      b.QueryErrors.Load(),
		QueryAvgNanos:    avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		AdjustCount:      b.AdjustCount.Load(),
		AdjustErrors:     b.AdjustErrors.Load(),
		RecordsUpdated:   b.RecordsUpdated.Load(),
		RecordsDeleted:   b.RecordsDeleted.Load(),
		RecordsAppended:  b.RecordsAppended.Load(),
		ArrayCount:       b.ArrayCount.Load(),
		ArrayErrors:      b.ArrayErrors.Load(),
		IndexBuilds:      b.IndexBuilds.Load(),
		IndexBuildErrors: b.IndexBuildErrors.Load(),
		IndexBuildAvgNs:  avg(b.IndexBuildNanos.Load(), b.IndexBuilds.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount       int64
	QueryErrors      int64
	QueryAvgNanos    int64
	AdjustCount      int64
	AdjustErrors     int64
	RecordsUpdated   int64
	RecordsDeleted   int64
	RecordsAppended  int64
	ArrayCount       int64
	ArrayErrors      int64
	IndexBuilds      int64
	IndexBuildErrors int64
	IndexBuildAvgNs  int64
}

// indexObserver forwards store index builds to a MetricsCollector.
type indexObserver struct {
	metrics MetricsCollector
	logger  *Logger
}

func (o indexObserver) OnIndexBuild(duration time.Duration, indexType string, label string, entries int, err error) {
	o.metrics.RecordIndexBuild(indexType, label, entries, duration, err)
	if err != nil {
		o.logger.Warn("index build failed", "index", indexType, "label", label, "error", err)
		return
	}
	o.logger.Debug("index built", "index", indexType, "label", label, "entries", entries, "duration", duration)
}
