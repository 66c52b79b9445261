package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"
)

// mockBackend implements Backend
type mockBackend struct {
	getFunc  func(ctx context.Context, path string, query url.Values, out any) error
	postFunc func(ctx context.Context, path string, query url.Values, in, out any) error
}

func (m *mockBackend) Get(ctx context.Context, path string, query url.Values, out any) error {
	return m.getFunc(ctx, path, query, out)
}

func (m *mockBackend) Post(ctx context.Context, path string, query url.Values, in, out any) error {
	return m.postFunc(ctx, path, query, in, out)
}

// respond decodes body into out the way the HTTP client would.
func respond(out any, body string) error {
	return json.Unmarshal([]byte(body), out)
}

// mockLogger implements Logger
type mockLogger struct {
	debugFunc func(msg string, keysAndValues ...interface{})
	infoFunc  func(msg string, keysAndValues ...interface{})
	warnFunc  func(msg string, keysAndValues ...interface{})
	errorFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {
	if m.debugFunc != nil {
		m.debugFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	if m.infoFunc != nil {
		m.infoFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	if m.warnFunc != nil {
		m.warnFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	if m.errorFunc != nil {
		m.errorFunc(msg, keysAndValues...)
	}
}

// mockMetricsCollector implements MetricsCollector and counts what it sees.
type mockMetricsCollector struct {
	mu       sync.Mutex
	counters map[string]int
	gauges   map[string]float64
}

func newMockMetrics() *mockMetricsCollector {
	return &mockMetricsCollector{
		counters: make(map[string]int),
		gauges:   make(map[string]float64),
	}
}

func (m *mockMetricsCollector) IncrementCounter(name string, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

func (m *mockMetricsCollector) RecordHistogram(name string, value float64, labels ...string) {}

func (m *mockMetricsCollector) RecordGauge(name string, value float64, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

func (m *mockMetricsCollector) StartTimer(name string, labels ...string) Timer {
	return &mockTimer{}
}

func (m *mockMetricsCollector) counter(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

func (m *mockMetricsCollector) gauge(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}

// mockTimer implements Timer
type mockTimer struct{}

func (m *mockTimer) Stop() time.Duration {
	return 0
}
