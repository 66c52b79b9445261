package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/models"
)

// barWidth is the width in cells of a 100% bar.
const barWidth = 40

// Comparison prints the side-by-side table and the execution time chart.
func (r *Renderer) Comparison(outcomes []models.QueryResult, result evaluator.ComparisonResult) {
	table := r.table([]string{"Query", "Status", "Time (ms)", "Rows Returned", "Rows Scanned", "Index Used", "SQL"})
	for i := range outcomes {
		o := &outcomes[i]
		label := fmt.Sprintf("Query %d", i+1)
		if result.IsBest(i) {
			label += " " + r.paint(evaluator.ToneGreen, "Fastest")
		}
		timeCell := "-"
		if o.ExecutionTime != nil {
			timeCell = r.paint(result.Outcomes[i].Time.Tone(), r.number(*o.ExecutionTime)+" ms")
		}
		table.Append([]string{
			label,
			r.paint(statusTone(o.Status), string(o.Status)),
			timeCell,
			r.optNumber(o.RowsReturned, "-"),
			r.paint(result.Outcomes[i].Scan.Tone(), r.optNumber(o.RowsScanned, "-")),
			r.paint(indexTone(result.Outcomes[i].Index), indexLabel(o.IndexUsed)),
			truncate(o.OriginalSQL, maxSQLWidth),
		})
	}
	table.Render()

	r.printf("\nExecution Time Comparison\n")
	for i := range outcomes {
		o := &outcomes[i]
		tone := evaluator.ToneBlue
		if result.IsBest(i) {
			tone = evaluator.ToneGreen
		}
		r.printf("Query %-3d %s %s\n", i+1,
			r.paint(tone, bar(result.Outcomes[i].BarWidth)),
			r.optNumber(o.ExecutionTime, "-"))
	}

	for i := range outcomes {
		if !outcomes[i].Succeeded() {
			r.printf("Query %d: %s\n", i+1, orDash(outcomes[i].ErrorMessage))
		}
	}
}

// bar draws a percentage as a fixed-width bar.
func bar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
