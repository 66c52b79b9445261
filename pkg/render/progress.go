package render

import (
	"strings"

	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/models"
)

// Volume prints the row counts a generation request will produce.
func (r *Renderer) Volume(req models.SampleDataRequest) {
	table := r.table([]string{"Table", "Rows"})
	table.Append([]string{"sample_customers", r.number(int64(req.Customers))})
	table.Append([]string{"sample_products", r.number(int64(req.Products))})
	table.Append([]string{"sample_orders", r.number(int64(req.Orders))})
	table.Append([]string{"sample_order_items", "~" + r.number(req.ExpectedOrderItems())})
	table.Render()
}

// Progress prints one line of generation progress.
func (r *Renderer) Progress(status models.GenerationStatus) {
	pct := max(0, min(100, status.Progress))
	filled := pct * barWidth / 100
	tone := evaluator.ToneBlue
	if !status.IsGenerating {
		tone = evaluator.ToneGreen
	}
	r.printf("[%s] %3d%% %s\n",
		r.paint(tone, strings.Repeat("█", filled)+strings.Repeat("░", barWidth-filled)),
		status.Progress,
		status.CurrentTask)
}
