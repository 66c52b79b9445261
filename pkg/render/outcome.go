package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/models"
)

// Outcome prints one execution outcome: the error for a failed query, or
// the metrics, result grid and EXPLAIN plan for a successful one.
func (r *Renderer) Outcome(res *models.QueryResult) {
	if !res.Succeeded() {
		r.printf("%s %s\n", r.paint(statusTone(res.Status), string(res.Status)), orDash(res.ErrorMessage))
		return
	}

	if res.Rewritten() {
		r.printf("Executed as: %s\n\n", *res.ProcessedSQL)
	}

	r.Metrics(res)

	if len(res.Columns) > 0 {
		r.printf("\n")
		r.Grid(res.Columns, res.Data)
	}

	if len(res.ExplainResult) > 0 {
		r.printf("\nEXPLAIN Analysis\n")
		r.Explain(res.ExplainResult)
	}
}

// Metrics prints the four headline numbers of a successful outcome with
// their classifications.
func (r *Renderer) Metrics(res *models.QueryResult) {
	ms := res.ExecutionTimeOrZero()
	timeClass := evaluator.ClassifyTime(ms)
	scanClass := evaluator.ClassifyScanEfficiency(res.RowsScannedOrZero(), res.RowsReturnedOrZero())
	keyUsage := evaluator.ClassifyKeyUsage(res.IndexUsed)

	table := r.table([]string{"Metric", "Value", "Assessment"})
	table.Append([]string{"Execution Time", r.paint(timeClass.Tone(), r.number(ms)+" ms"), timeClass.String()})
	table.Append([]string{"Rows Returned", r.paint(evaluator.ToneBlue, r.number(res.RowsReturnedOrZero())), ""})
	table.Append([]string{"Rows Scanned", r.paint(scanClass.Tone(), r.optNumber(res.RowsScanned, "N/A")), scanClass.String()})
	table.Append([]string{"Index Used", r.paint(indexTone(keyUsage), indexLabel(res.IndexUsed)), keyUsage.String()})
	table.Render()
}

// Grid prints result rows in column order, capped at the renderer's row
// limit.
func (r *Renderer) Grid(columns []string, data []map[string]any) {
	table := r.table(columns)
	for i, row := range data {
		if i == r.maxRows {
			break
		}
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = cellValue(row[col])
		}
		table.Append(cells)
	}
	table.Render()

	if len(data) > r.maxRows {
		r.printf("Showing %s of %s rows\n", r.number(int64(r.maxRows)), r.number(int64(len(data))))
	}
}

// Explain prints an EXPLAIN plan, colouring the access type and a missing
// key.
func (r *Renderer) Explain(rows []models.ExplainRow) {
	annotations := evaluator.AnnotateExplain(rows)

	table := r.table([]string{"id", "select_type", "table", "type", "possible_keys", "key", "rows", "filtered", "Extra"})
	for i, row := range rows {
		a := annotations[i]
		filtered := "-"
		if row.Filtered != nil {
			filtered = strconv.FormatFloat(*row.Filtered, 'f', -1, 64)
		}
		table.Append([]string{
			r.optNumber(row.ID, "-"),
			orDash(&row.SelectType),
			orDash(row.Table),
			r.paint(a.Access.Tone(), orDash(row.Type)),
			orDash(row.PossibleKeys),
			r.paint(a.Key.Tone(), orDash(row.Key)),
			r.optNumber(row.Rows, "-"),
			filtered,
			orDash(row.Extra),
		})
	}
	table.Render()
}

// ExplainResult prints the response of an explain-only request.
func (r *Renderer) ExplainResult(res *models.ExplainResult) {
	if !res.Success {
		r.printf("%s %s\n", r.paint(evaluator.ToneRed, string(models.StatusError)), orDash(res.ErrorMessage))
		return
	}

	keyUsage := evaluator.ClassifyKeyUsage(res.IndexUsed)
	r.printf("Index Used: %s  Rows Scanned (est.): %s\n\n",
		r.paint(indexTone(keyUsage), indexLabel(res.IndexUsed)),
		r.optNumber(res.RowsScanned, "N/A"))
	r.Explain(res.ExplainData)
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

func statusTone(s models.Status) evaluator.Tone {
	switch s {
	case models.StatusSuccess:
		return evaluator.ToneGreen
	case models.StatusTimeout:
		return evaluator.ToneYellow
	default:
		return evaluator.ToneRed
	}
}

// indexTone is green for a used index, red otherwise.
func indexTone(k evaluator.KeyUsage) evaluator.Tone {
	if k == evaluator.KeyIndexed {
		return evaluator.ToneGreen
	}
	return evaluator.ToneRed
}
