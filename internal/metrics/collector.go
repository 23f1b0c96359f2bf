// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single fetch operation.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count" yaml:"count"`
	Failures    int64   `json:"failures" yaml:"failures"`
	TotalTimeMs int64   `json:"totalTimeMs" yaml:"total_time_ms"`
	AvgTimeMs   float64 `json:"avgTimeMs" yaml:"avg_time_ms"`
	MinTimeMs   int64   `json:"minTimeMs" yaml:"min_time_ms"`
	MaxTimeMs   int64   `json:"maxTimeMs" yaml:"max_time_ms"`
}

// Snapshot represents the collected statistics at a point in time.
type Snapshot struct {
	UptimeSeconds  float64            `json:"uptimeSeconds" yaml:"uptime_seconds"`
	MatchLoad      *OperationSnapshot `json:"matchLoad,omitempty" yaml:"match_load,omitempty"`
	PatternSummary *OperationSnapshot `json:"patternSummary,omitempty" yaml:"pattern_summary,omitempty"`
	PreciseDensity *OperationSnapshot `json:"preciseDensity,omitempty" yaml:"precise_density,omitempty"`

	// Coordination counters
	StaleResponses   int64 `json:"staleResponses" yaml:"stale_responses"`
	DebouncedResets  int64 `json:"debouncedResets" yaml:"debounced_resets"`
	SkippedWindows   int64 `json:"skippedWindows" yaml:"skipped_windows"`
	CancelledFetches int64 `json:"cancelledFetches" yaml:"cancelled_fetches"`
}

// Operation names for the collector.
const (
	OpMatchLoad      = "match_load"
	OpPatternSummary = "pattern_summary"
	OpPreciseDensity = "precise_density"
)

// Counter names for the collector.
const (
	CounterStale     = "stale_responses"
	CounterDebounced = "debounced_resets"
	CounterSkipped   = "skipped_windows"
	CounterCancelled = "cancelled_fetches"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe and safe to call on a nil Collector.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
	counters  map[string]int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
		counters:  make(map[string]int64),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// Record records the timing and outcome of one fetch.
func (c *Collector) Record(op string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration
	if err != nil {
		m.Failures++
	}

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Inc bumps a named counter.
func (c *Collector) Inc(counter string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counters[counter]++
	c.mu.Unlock()
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:    time.Since(c.startTime).Seconds(),
		MatchLoad:        snapshotOp(c.ops[OpMatchLoad]),
		PatternSummary:   snapshotOp(c.ops[OpPatternSummary]),
		PreciseDensity:   snapshotOp(c.ops[OpPreciseDensity]),
		StaleResponses:   c.counters[CounterStale],
		DebouncedResets:  c.counters[CounterDebounced],
		SkippedWindows:   c.counters[CounterSkipped],
		CancelledFetches: c.counters[CounterCancelled],
	}
}
