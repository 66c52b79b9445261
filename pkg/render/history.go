package render

import (
	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/models"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// History prints a page of history with its pagination footer.
func (r *Renderer) History(page *models.PagedResponse[models.HistoryItem]) {
	r.printf("Query History (%s total queries executed)\n", r.number(int64(page.TotalItems)))

	if len(page.Items) == 0 {
		r.printf("No query history yet\n")
		return
	}

	table := r.table([]string{"ID", "SQL", "Status", "Time", "Rows", "Index", "Date"})
	for i := range page.Items {
		item := &page.Items[i]
		timeCell := "-"
		if item.ExecutionTime != nil {
			timeCell = r.number(*item.ExecutionTime) + " ms"
		}
		date := "-"
		if !item.CreatedAt.IsZero() {
			date = item.CreatedAt.Local().Format(historyTimeLayout)
		}
		table.Append([]string{
			r.number(item.ID),
			truncate(item.SQLText, maxSQLWidth),
			r.paint(statusTone(item.Status), string(item.Status)),
			timeCell,
			r.optNumber(item.RowsReturned, "-"),
			r.paint(indexTone(evaluator.ClassifyKeyUsage(item.IndexUsed)), indexLabel(item.IndexUsed)),
			date,
		})
	}
	table.Render()

	if page.TotalPages > 1 {
		r.printf("Page %d of %d", page.Page+1, page.TotalPages)
		if page.HasPrevious() {
			r.printf("  previous: --page %d", page.Page-1)
		}
		if page.HasNext() {
			r.printf("  next: --page %d", page.Page+1)
		}
		r.printf("\n")
	}
}

// HistoryItem prints one history entry in full.
func (r *Renderer) HistoryItem(item *models.HistoryItem) {
	keyUsage := evaluator.ClassifyKeyUsage(item.IndexUsed)
	table := r.table([]string{"Field", "Value"})
	table.Append([]string{"ID", r.number(item.ID)})
	table.Append([]string{"Status", r.paint(statusTone(item.Status), string(item.Status))})
	execTime := "-"
	if item.ExecutionTime != nil {
		execTime = r.number(*item.ExecutionTime) + " ms"
	}
	table.Append([]string{"Execution Time", execTime})
	table.Append([]string{"Rows Returned", r.optNumber(item.RowsReturned, "-")})
	table.Append([]string{"Rows Scanned", r.optNumber(item.RowsScanned, "-")})
	table.Append([]string{"Index Used", r.paint(indexTone(keyUsage), indexLabel(item.IndexUsed))})
	if !item.CreatedAt.IsZero() {
		table.Append([]string{"Date", item.CreatedAt.Local().Format(historyTimeLayout)})
	}
	table.Render()
	r.printf("\n%s\n", item.SQLText)
}
