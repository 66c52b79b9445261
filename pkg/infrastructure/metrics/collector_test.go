package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoOpCollector(t *testing.T) {
	collector := NewNoOpCollector()

	assert.NotPanics(t, func() {
		collector.IncrementCounter(HTTPRequestsTotal, "endpoint", "/query/execute")
		collector.RecordHistogram(QueryExecutionSecs, 0.042, "status", "SUCCESS")
		collector.RecordGauge(GenerationProgress, 40)
	})
}

func TestNoOpCollector_StartTimer(t *testing.T) {
	timer := NewNoOpCollector().StartTimer(HTTPRequest, "endpoint", "/history")

	time.Sleep(10 * time.Millisecond)

	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestParseLabelPairs(t *testing.T) {
	names, values := parseLabelPairs([]string{"endpoint", "/history", "status", "2xx", "dangling"})

	assert.Equal(t, []string{"endpoint", "status"}, names)
	assert.Equal(t, []string{"/history", "2xx"}, values)
}
