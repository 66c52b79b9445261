// Package evaluator ranks and classifies query execution outcomes for
// display. Every function is pure and total: missing telemetry degrades to
// a neutral classification instead of an error.
package evaluator

import (
	"strings"

	"github.com/TFMV/querylab/pkg/models"
)

// Time bucket boundaries in milliseconds.
const (
	ModerateTimeMs = 100
	SlowTimeMs     = 500
)

// Scan-efficiency ratio boundaries.
const (
	EfficientRatio = 0.5
	ModerateRatio  = 0.1
)

var accessClasses = map[string]AccessClass{
	"system": AccessOptimal,
	"const":  AccessOptimal,
	"eq_ref": AccessOptimal,
	"ref":    AccessAcceptable,
	"range":  AccessAcceptable,
	"index":  AccessAcceptable,
	"all":    AccessFullScan,
}

// SelectBest returns the index of the fastest successful outcome, or -1 when
// no outcome is SUCCESS with a reported time. Ties go to the earliest index.
func SelectBest(outcomes []models.QueryResult) int {
	best := -1
	var bestTime int64
	for i := range outcomes {
		o := &outcomes[i]
		if o.Status != models.StatusSuccess || o.ExecutionTime == nil {
			continue
		}
		if best == -1 || *o.ExecutionTime < bestTime {
			best = i
			bestTime = *o.ExecutionTime
		}
	}
	return best
}

// ClassifyTime buckets an execution time in milliseconds.
func ClassifyTime(ms int64) TimeClass {
	switch {
	case ms < ModerateTimeMs:
		return TimeFast
	case ms < SlowTimeMs:
		return TimeModerate
	default:
		return TimeSlow
	}
}

// ClassifyScanEfficiency buckets returned/scanned. Zero scanned rows means
// there is no scan data.
func ClassifyScanEfficiency(scanned, returned int64) ScanClass {
	if scanned == 0 {
		return ScanUnknown
	}
	ratio := float64(returned) / float64(scanned)
	switch {
	case ratio > EfficientRatio:
		return ScanEfficient
	case ratio > ModerateRatio:
		return ScanModerate
	default:
		return ScanInefficient
	}
}

// ClassifyAccessType buckets an EXPLAIN access type, case-insensitively.
func ClassifyAccessType(accessType string) AccessClass {
	if c, ok := accessClasses[strings.ToLower(strings.TrimSpace(accessType))]; ok {
		return c
	}
	return AccessNeutral
}

// ClassifyKeyUsage reports whether key names an index.
func ClassifyKeyUsage(key *string) KeyUsage {
	if key == nil || *key == "" {
		return KeyNoIndex
	}
	return KeyIndexed
}

// ComputeBarWidths returns each outcome's execution time as a percentage of
// the slowest one. Absent times count as 0.
func ComputeBarWidths(outcomes []models.QueryResult) []float64 {
	widths := make([]float64, len(outcomes))

	var maxTime int64
	for i := range outcomes {
		if t := outcomes[i].ExecutionTimeOrZero(); t > maxTime {
			maxTime = t
		}
	}
	if maxTime <= 0 {
		return widths
	}

	for i := range outcomes {
		t := outcomes[i].ExecutionTimeOrZero()
		if t < 0 {
			t = 0
		}
		widths[i] = float64(t) / float64(maxTime) * 100
	}
	return widths
}

// OutcomeClass is the per-outcome part of a ComparisonResult.
type OutcomeClass struct {
	Time     TimeClass
	Scan     ScanClass
	Index    KeyUsage
	BarWidth float64
}

// ComparisonResult is the derived view of a batch of outcomes.
type ComparisonResult struct {
	BestIndex int
	Outcomes  []OutcomeClass
}

// IsBest reports whether i is the winning outcome.
func (r ComparisonResult) IsBest(i int) bool {
	return r.BestIndex >= 0 && r.BestIndex == i
}

// Evaluate ranks outcomes and classifies each one.
func Evaluate(outcomes []models.QueryResult) ComparisonResult {
	widths := ComputeBarWidths(outcomes)
	classes := make([]OutcomeClass, len(outcomes))
	for i := range outcomes {
		o := &outcomes[i]
		classes[i] = OutcomeClass{
			Time:     ClassifyTime(o.ExecutionTimeOrZero()),
			Scan:     ClassifyScanEfficiency(o.RowsScannedOrZero(), o.RowsReturnedOrZero()),
			Index:    ClassifyKeyUsage(o.IndexUsed),
			BarWidth: widths[i],
		}
	}
	return ComparisonResult{
		BestIndex: SelectBest(outcomes),
		Outcomes:  classes,
	}
}

// ExplainAnnotation carries the independent access and key classifications
// of one EXPLAIN row.
type ExplainAnnotation struct {
	Access AccessClass
	Key    KeyUsage
}

// AnnotateExplain classifies every row of a plan.
func AnnotateExplain(rows []models.ExplainRow) []ExplainAnnotation {
	out := make([]ExplainAnnotation, len(rows))
	for i, row := range rows {
		out[i] = ExplainAnnotation{
			Access: ClassifyAccessType(row.AccessType()),
			Key:    ClassifyKeyUsage(row.Key),
		}
	}
	return out
}
