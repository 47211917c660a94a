package scalarindex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    queryCounter   *prometheus.CounterVec
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordQuery(kind string, matches uint64, d time.Duration, err error) {
//	    p.queryCounter.WithLabelValues(kind).Inc()
//	    p.queryHistogram.Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordBuild is called after each Build or BuildDataset.
	RecordBuild(rows int, duration time.Duration, err error)

	// RecordQuery is called after each query. kind is "in", "not_in",
	// "range" or "range_between"; matches is the number of set bits.
	RecordQuery(kind string, matches uint64, duration time.Duration, err error)

	// RecordSerialize is called after each Serialize.
	RecordSerialize(blobs int, bytes int64, duration time.Duration, err error)

	// RecordLoad is called after each Load.
	RecordLoad(rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordQuery(string, uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSerialize(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildRows       atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryMatches    atomic.Int64
	QueryTotalNanos atomic.Int64
	SerializeCount  atomic.Int64
	SerializeErrors atomic.Int64
	SerializeBytes  atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadRows        atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(rows int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildRows.Add(int64(rows))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, matches uint64, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatches.Add(int64(matches))
}

// RecordSerialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSerialize(_ int, bytes int64, _ time.Duration, err error) {
	b.SerializeCount.Add(1)
	if err != nil {
		b.SerializeErrors.Add(1)
		return
	}
	b.SerializeBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(rows int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRows.Add(int64(rows))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildRows:       b.BuildRows.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryMatches:    b.QueryMatches.Load(),
		QueryAvgNanos:   b.getAvgQueryNanos(),
		SerializeCount:  b.SerializeCount.Load(),
		SerializeErrors: b.SerializeErrors.Load(),
		SerializeBytes:  b.SerializeBytes.Load(),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadRows:        b.LoadRows.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount      int64
	BuildErrors     int64
	BuildRows       int64
	QueryCount      int64
	QueryErrors     int64
	QueryMatches    int64
	QueryAvgNanos   int64
	SerializeCount  int64
	SerializeErrors int64
	SerializeBytes  int64
	LoadCount       int64
	LoadErrors      int64
	LoadRows        int64
}
