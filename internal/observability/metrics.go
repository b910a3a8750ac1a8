// Package observability provides metrics collection for forcelift.
package observability

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters for Tooling API traffic and promotion runs.
// All methods are safe for concurrent use.
type Metrics struct {
	// Counters
	queriesTotal  atomic.Int64
	queryErrors   atomic.Int64
	updatesTotal  atomic.Int64
	updateErrors  atomic.Int64
	runsTotal     atomic.Int64
	runsFailed    atomic.Int64
	rateLimitWait atomic.Int64

	// Latency summaries (count and sum, milliseconds)
	queryLatencyCount  atomic.Int64
	queryLatencySum    atomic.Int64
	updateLatencyCount atomic.Int64
	updateLatencySum   atomic.Int64
	runLatencyCount    atomic.Int64
	runLatencySum      atomic.Int64

	// Info
	version   string
	startTime time.Time
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(version string) *Metrics {
	return &Metrics{
		version:   version,
		startTime: time.Now(),
	}
}

// RecordQuery records one Tooling API query round-trip.
func (m *Metrics) RecordQuery(success bool, duration time.Duration) {
	m.queriesTotal.Add(1)
	if !success {
		m.queryErrors.Add(1)
	}
	m.queryLatencyCount.Add(1)
	m.queryLatencySum.Add(duration.Milliseconds())
}

// RecordUpdate records one release-flag update round-trip.
func (m *Metrics) RecordUpdate(success bool, duration time.Duration) {
	m.updatesTotal.Add(1)
	if !success {
		m.updateErrors.Add(1)
	}
	m.updateLatencyCount.Add(1)
	m.updateLatencySum.Add(duration.Milliseconds())
}

// RecordRun records a completed promotion run.
func (m *Metrics) RecordRun(success bool, duration time.Duration) {
	m.runsTotal.Add(1)
	if !success {
		m.runsFailed.Add(1)
	}
	m.runLatencyCount.Add(1)
	m.runLatencySum.Add(duration.Milliseconds())
}

// RecordRateLimitWait records time spent waiting on the request pacer.
func (m *Metrics) RecordRateLimitWait(duration time.Duration) {
	m.rateLimitWait.Add(duration.Milliseconds())
}

// Render returns the metrics in Prometheus text format. The CLI prints
// this at debug level after a run; there is no scrape endpoint.
func (m *Metrics) Render() string {
	var sb strings.Builder

	sb.WriteString("# HELP forcelift_info Build information\n")
	sb.WriteString("# TYPE forcelift_info gauge\n")
	sb.WriteString(fmt.Sprintf("forcelift_info{version=%q} 1\n\n", m.version))

	uptime := time.Since(m.startTime).Seconds()
	sb.WriteString("# HELP forcelift_uptime_seconds Uptime in seconds\n")
	sb.WriteString("# TYPE forcelift_uptime_seconds gauge\n")
	sb.WriteString(fmt.Sprintf("forcelift_uptime_seconds %.2f\n\n", uptime))

	sb.WriteString("# HELP forcelift_queries_total Total Tooling API queries issued\n")
	sb.WriteString("# TYPE forcelift_queries_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_queries_total %d\n\n", m.queriesTotal.Load()))

	sb.WriteString("# HELP forcelift_query_errors_total Total failed Tooling API queries\n")
	sb.WriteString("# TYPE forcelift_query_errors_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_query_errors_total %d\n\n", m.queryErrors.Load()))

	sb.WriteString("# HELP forcelift_query_duration_milliseconds Tooling API query duration\n")
	sb.WriteString("# TYPE forcelift_query_duration_milliseconds summary\n")
	sb.WriteString(fmt.Sprintf("forcelift_query_duration_milliseconds_count %d\n", m.queryLatencyCount.Load()))
	sb.WriteString(fmt.Sprintf("forcelift_query_duration_milliseconds_sum %d\n\n", m.queryLatencySum.Load()))

	sb.WriteString("# HELP forcelift_updates_total Total release-flag updates issued\n")
	sb.WriteString("# TYPE forcelift_updates_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_updates_total %d\n\n", m.updatesTotal.Load()))

	sb.WriteString("# HELP forcelift_update_errors_total Total failed release-flag updates\n")
	sb.WriteString("# TYPE forcelift_update_errors_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_update_errors_total %d\n\n", m.updateErrors.Load()))

	sb.WriteString("# HELP forcelift_update_duration_milliseconds Release-flag update duration\n")
	sb.WriteString("# TYPE forcelift_update_duration_milliseconds summary\n")
	sb.WriteString(fmt.Sprintf("forcelift_update_duration_milliseconds_count %d\n", m.updateLatencyCount.Load()))
	sb.WriteString(fmt.Sprintf("forcelift_update_duration_milliseconds_sum %d\n\n", m.updateLatencySum.Load()))

	sb.WriteString("# HELP forcelift_runs_total Total promotion runs\n")
	sb.WriteString("# TYPE forcelift_runs_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_runs_total %d\n\n", m.runsTotal.Load()))

	sb.WriteString("# HELP forcelift_runs_failed_total Total failed promotion runs\n")
	sb.WriteString("# TYPE forcelift_runs_failed_total counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_runs_failed_total %d\n\n", m.runsFailed.Load()))

	sb.WriteString("# HELP forcelift_run_duration_milliseconds Promotion run duration\n")
	sb.WriteString("# TYPE forcelift_run_duration_milliseconds summary\n")
	sb.WriteString(fmt.Sprintf("forcelift_run_duration_milliseconds_count %d\n", m.runLatencyCount.Load()))
	sb.WriteString(fmt.Sprintf("forcelift_run_duration_milliseconds_sum %d\n\n", m.runLatencySum.Load()))

	sb.WriteString("# HELP forcelift_ratelimit_wait_milliseconds Total time spent waiting on the request pacer\n")
	sb.WriteString("# TYPE forcelift_ratelimit_wait_milliseconds counter\n")
	sb.WriteString(fmt.Sprintf("forcelift_ratelimit_wait_milliseconds %d\n", m.rateLimitWait.Load()))

	return sb.String()
}

// Snapshot returns a point-in-time snapshot of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		QueriesTotal:  m.queriesTotal.Load(),
		QueryErrors:   m.queryErrors.Load(),
		UpdatesTotal:  m.updatesTotal.Load(),
		UpdateErrors:  m.updateErrors.Load(),
		RunsTotal:     m.runsTotal.Load(),
		RunsFailed:    m.runsFailed.Load(),
		RateLimitWait: time.Duration(m.rateLimitWait.Load()) * time.Millisecond,
		Uptime:        time.Since(m.startTime),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	QueriesTotal  int64
	QueryErrors   int64
	UpdatesTotal  int64
	UpdateErrors  int64
	RunsTotal     int64
	RunsFailed    int64
	RateLimitWait time.Duration
	Uptime        time.Duration
}

// Global metrics instance with separate sync.Once for initialization control.
var (
	globalMetrics     *Metrics
	globalMetricsOnce sync.Once
	initOnce          sync.Once
	initialized       bool
)

// Global returns the global metrics instance.
// If InitGlobal has not been called, this will initialize with "unknown" version.
func Global() *Metrics {
	globalMetricsOnce.Do(func() {
		if !initialized {
			globalMetrics = NewMetrics("unknown")
		}
	})
	return globalMetrics
}

// InitGlobal initializes the global metrics instance with version info.
// Call early in startup, before any calls to Global().
func InitGlobal(version string) *Metrics {
	initOnce.Do(func() {
		initialized = true
		globalMetrics = NewMetrics(version)
	})
	globalMetricsOnce.Do(func() {})
	return globalMetrics
}
