package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/querylab/pkg/models"
)

func success(ms int64) models.QueryResult {
	return models.QueryResult{Status: models.StatusSuccess, ExecutionTime: models.Int64(ms)}
}

func failed(status models.Status) models.QueryResult {
	return models.QueryResult{Status: status, ErrorMessage: models.String("boom")}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []models.QueryResult
		expected int
	}{
		{
			name:     "empty",
			outcomes: nil,
			expected: -1,
		},
		{
			name:     "single success",
			outcomes: []models.QueryResult{success(10)},
			expected: 0,
		},
		{
			name:     "tie keeps earliest",
			outcomes: []models.QueryResult{success(100), success(100)},
			expected: 0,
		},
		{
			name:     "all failing",
			outcomes: []models.QueryResult{failed(models.StatusError), failed(models.StatusTimeout)},
			expected: -1,
		},
		{
			name:     "fastest wins",
			outcomes: []models.QueryResult{success(300), success(20), success(150)},
			expected: 1,
		},
		{
			name: "fast error is ineligible",
			outcomes: []models.QueryResult{
				{Status: models.StatusError, ExecutionTime: models.Int64(1)},
				success(90),
			},
			expected: 1,
		},
		{
			name: "success without time is ineligible",
			outcomes: []models.QueryResult{
				{Status: models.StatusSuccess},
				success(400),
			},
			expected: 1,
		},
		{
			name:     "success without time only",
			outcomes: []models.QueryResult{{Status: models.StatusSuccess}},
			expected: -1,
		},
		{
			name:     "zero time counts",
			outcomes: []models.QueryResult{success(5), success(0), success(0)},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectBest(tt.outcomes))
		})
	}
}

func TestSelectBestDoesNotMutate(t *testing.T) {
	outcomes := []models.QueryResult{success(30), failed(models.StatusError), success(10)}
	before := make([]models.QueryResult, len(outcomes))
	copy(before, outcomes)

	SelectBest(outcomes)
	ComputeBarWidths(outcomes)
	Evaluate(outcomes)

	assert.Equal(t, before, outcomes)
}

func TestSelectBestRange(t *testing.T) {
	batches := [][]models.QueryResult{
		{failed(models.StatusTimeout), success(7)},
		{success(1), success(2), success(3), success(4), success(5)},
		{failed(models.StatusError)},
	}
	for _, batch := range batches {
		best := SelectBest(batch)
		assert.GreaterOrEqual(t, best, -1)
		assert.Less(t, best, len(batch))
		if best >= 0 {
			assert.Equal(t, models.StatusSuccess, batch[best].Status)
		}
	}
}

func TestClassifyTime(t *testing.T) {
	tests := []struct {
		ms       int64
		expected TimeClass
	}{
		{0, TimeFast},
		{99, TimeFast},
		{100, TimeModerate},
		{499, TimeModerate},
		{500, TimeSlow},
		{60000, TimeSlow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyTime(tt.ms), "ms=%d", tt.ms)
	}
}

func TestClassifyScanEfficiency(t *testing.T) {
	tests := []struct {
		name     string
		scanned  int64
		returned int64
		expected ScanClass
	}{
		{"nothing scanned", 0, 0, ScanUnknown},
		{"returned without scan data", 0, 10, ScanUnknown},
		{"efficient", 1000, 600, ScanEfficient},
		{"exactly half is moderate", 1000, 500, ScanModerate},
		{"moderate", 1000, 200, ScanModerate},
		{"exactly a tenth is inefficient", 1000, 100, ScanInefficient},
		{"inefficient", 1000, 50, ScanInefficient},
		{"returned exceeds scanned", 10, 20, ScanEfficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyScanEfficiency(tt.scanned, tt.returned))
		})
	}
}

func TestClassifyAccessType(t *testing.T) {
	tests := []struct {
		accessType string
		expected   AccessClass
	}{
		{"ALL", AccessFullScan},
		{"all", AccessFullScan},
		{"eq_ref", AccessOptimal},
		{"EQ_REF", AccessOptimal},
		{"const", AccessOptimal},
		{"system", AccessOptimal},
		{"ref", AccessAcceptable},
		{"range", AccessAcceptable},
		{"index", AccessAcceptable},
		{"index_merge", AccessNeutral},
		{"fulltext", AccessNeutral},
		{"", AccessNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyAccessType(tt.accessType), "type=%q", tt.accessType)
	}
}

func TestClassifyKeyUsage(t *testing.T) {
	assert.Equal(t, KeyNoIndex, ClassifyKeyUsage(nil))
	assert.Equal(t, KeyNoIndex, ClassifyKeyUsage(models.String("")))
	assert.Equal(t, KeyIndexed, ClassifyKeyUsage(models.String("PRIMARY")))
}

func TestComputeBarWidths(t *testing.T) {
	t.Run("relative to slowest", func(t *testing.T) {
		widths := ComputeBarWidths([]models.QueryResult{success(50), success(200), success(100)})
		assert.Equal(t, []float64{25, 100, 50}, widths)
	})

	t.Run("all zero", func(t *testing.T) {
		widths := ComputeBarWidths([]models.QueryResult{success(0), failed(models.StatusError)})
		assert.Equal(t, []float64{0, 0}, widths)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ComputeBarWidths(nil))
	})

	t.Run("tie reaches full width", func(t *testing.T) {
		widths := ComputeBarWidths([]models.QueryResult{success(300), success(300), success(30)})
		assert.Equal(t, float64(100), widths[0])
		assert.Equal(t, float64(100), widths[1])
		for _, w := range widths {
			assert.GreaterOrEqual(t, w, float64(0))
			assert.LessOrEqual(t, w, float64(100))
		}
	})
}

func TestEvaluateCompareScenario(t *testing.T) {
	outcomes := []models.QueryResult{
		success(250),
		failed(models.StatusError),
		success(80),
	}

	result := Evaluate(outcomes)

	assert.Equal(t, 2, result.BestIndex)
	assert.True(t, result.IsBest(2))
	assert.False(t, result.IsBest(0))
	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, float64(100), result.Outcomes[0].BarWidth)
	assert.Equal(t, float64(0), result.Outcomes[1].BarWidth)
	assert.InDelta(t, 32, result.Outcomes[2].BarWidth, 1e-9)
	assert.Equal(t, TimeModerate, result.Outcomes[0].Time)
	assert.Equal(t, TimeFast, result.Outcomes[2].Time)
	assert.Equal(t, ScanUnknown, result.Outcomes[1].Scan)
}

func TestEvaluateNoWinner(t *testing.T) {
	result := Evaluate([]models.QueryResult{failed(models.StatusTimeout)})

	assert.Equal(t, -1, result.BestIndex)
	assert.False(t, result.IsBest(-1))
	assert.False(t, result.IsBest(0))
}

func TestAnnotateExplain(t *testing.T) {
	rows := []models.ExplainRow{
		{Type: models.String("ALL")},
		{Type: models.String("eq_ref"), Key: models.String("PRIMARY")},
		{Type: nil, Key: models.String("")},
	}

	got := AnnotateExplain(rows)

	assert.Equal(t, []ExplainAnnotation{
		{Access: AccessFullScan, Key: KeyNoIndex},
		{Access: AccessOptimal, Key: KeyIndexed},
		{Access: AccessNeutral, Key: KeyNoIndex},
	}, got)
}

func TestClassificationIsIdempotent(t *testing.T) {
	outcomes := []models.QueryResult{success(120), success(45), failed(models.StatusError)}

	assert.Equal(t, Evaluate(outcomes), Evaluate(outcomes))
	assert.Equal(t, ClassifyTime(499), ClassifyTime(499))
	assert.Equal(t, ClassifyScanEfficiency(1000, 200), ClassifyScanEfficiency(1000, 200))
	assert.Equal(t, ClassifyAccessType("Range"), ClassifyAccessType("Range"))
}

func TestTones(t *testing.T) {
	assert.Equal(t, ToneGreen, TimeFast.Tone())
	assert.Equal(t, ToneYellow, TimeModerate.Tone())
	assert.Equal(t, ToneRed, TimeSlow.Tone())
	assert.Equal(t, ToneGray, ScanUnknown.Tone())
	assert.Equal(t, ToneRed, ScanInefficient.Tone())
	assert.Equal(t, ToneNone, AccessNeutral.Tone())
	assert.Equal(t, ToneRed, AccessFullScan.Tone())
	assert.Equal(t, ToneRed, KeyNoIndex.Tone())
	assert.Equal(t, "full_scan", AccessFullScan.String())
	assert.Equal(t, "moderate", ScanModerate.String())
	assert.Equal(t, "slow", TimeSlow.String())
	assert.Equal(t, "green", ToneGreen.String())
}
