package services

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
)

func TestLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.New(&buf))

	logger.Info("Query executed",
		"status", "SUCCESS",
		"execution_time_ms", int64(12),
		"elapsed", 15*time.Millisecond,
		"error", fmt.Errorf("boom"),
		"dangling")

	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"status":"SUCCESS"`)
	assert.Contains(t, out, `"execution_time_ms":12`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"message":"Query executed"`)
	assert.NotContains(t, out, "dangling")
}

func TestMetricsAdapter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewMetricsCollector(metrics.NewPrometheusCollector(reg))

	collector.IncrementCounter(metrics.QueryOutcomesTotal, "status", "SUCCESS")
	collector.IncrementCounter(metrics.QueryOutcomesTotal, "status", "ERROR")
	collector.StartTimer("compare").Stop()

	count, err := testutil.GatherAndCount(reg, "querylab_query_outcomes_total", "querylab_compare_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}
