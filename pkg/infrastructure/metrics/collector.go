// Package metrics provides client-side metrics for querylab.
package metrics

import (
	"time"
)

// Namespace prefixes every metric name.
const Namespace = "querylab"

// Metric names recorded by the client and services.
const (
	HTTPRequestsTotal    = "http_requests_total"
	HTTPRequest          = "http_request"
	UnauthorizedTotal    = "unauthorized_responses_total"
	QueryOutcomesTotal   = "query_outcomes_total"
	QueryExecutionSecs   = "query_execution_seconds"
	SupersededTotal      = "superseded_requests_total"
	GenerationProgress   = "sample_generation_progress"
	GenerationPollsTotal = "sample_generation_polls_total"
	ComparisonBatchSize  = "comparison_batch_size"
	ComparisonNoWinner   = "comparison_without_winner_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncrementCounter increments a counter metric.
	IncrementCounter(name string, labels ...string)

	// RecordHistogram records a value in a histogram metric.
	RecordHistogram(name string, value float64, labels ...string)

	// RecordGauge records a gauge metric value.
	RecordGauge(name string, value float64, labels ...string)

	// StartTimer starts a timer whose Stop observes "<name>_seconds".
	StartTimer(name string, labels ...string) Timer
}

// Timer represents a timing measurement.
type Timer interface {
	// Stop ends the measurement and returns the elapsed time.
	Stop() time.Duration
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

// NewNoOpCollector creates a new no-op collector.
func NewNoOpCollector() Collector {
	return &NoOpCollector{}
}

// IncrementCounter does nothing.
func (n *NoOpCollector) IncrementCounter(name string, labels ...string) {}

// RecordHistogram does nothing.
func (n *NoOpCollector) RecordHistogram(name string, value float64, labels ...string) {}

// RecordGauge does nothing.
func (n *NoOpCollector) RecordGauge(name string, value float64, labels ...string) {}

// StartTimer returns a timer that only measures.
func (n *NoOpCollector) StartTimer(name string, labels ...string) Timer {
	return &noOpTimer{start: time.Now()}
}

type noOpTimer struct {
	start time.Time
}

func (t *noOpTimer) Stop() time.Duration {
	return time.Since(t.start)
}
