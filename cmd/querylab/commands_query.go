package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/session"
)

// sampleQueries are starting points against the generated sample schema.
var sampleQueries = []string{
	"SELECT * FROM sample_customers LIMIT 10",
	`SELECT * FROM sample_products WHERE category = "Electronics" LIMIT 20`,
	"SELECT c.first_name, c.last_name, COUNT(o.id) as order_count FROM sample_customers c LEFT JOIN sample_orders o ON c.id = o.customer_id GROUP BY c.id LIMIT 10",
	"SELECT p.name, SUM(oi.quantity) as total_sold FROM sample_products p JOIN sample_order_items oi ON p.id = oi.product_id GROUP BY p.id ORDER BY total_sold DESC LIMIT 10",
}

func newQueryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute a query and show its performance",
		Long: `Execute a query and show its performance metrics, result rows and EXPLAIN plan.

SQL is taken from the arguments, from --file (use - for stdin) or from
--sample.

Example:
  querylab query "SELECT * FROM sample_orders WHERE status = 'PAID'"
  querylab query --sample 3
  querylab query -f slow.sql`,
		RunE: withApp(v, session.RouteQuery, func(cmd *cobra.Command, a *app, args []string) error {
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			result, err := a.queries.Execute(cmd.Context(), sql)
			if err != nil {
				return err
			}
			a.render.Outcome(result)
			return nil
		}),
	}
	addSQLFlags(cmd)
	return cmd
}

func newExplainCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [SQL]",
		Short: "Show the EXPLAIN plan without executing",
		RunE: withApp(v, session.RouteQuery, func(cmd *cobra.Command, a *app, args []string) error {
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			result, err := a.queries.Explain(cmd.Context(), sql)
			if err != nil {
				return err
			}
			a.render.ExplainResult(result)
			return nil
		}),
	}
	addSQLFlags(cmd)
	return cmd
}

func newCompareCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare SQL SQL [SQL...]",
		Short: "Compare the performance of 2 to 5 queries",
		Long: `Run 2 to 5 queries and compare their execution time, scanned rows and index
use. The fastest successful query is marked.

Example:
  querylab compare \
    "SELECT * FROM sample_orders WHERE YEAR(order_date) = 2024" \
    "SELECT * FROM sample_orders WHERE order_date >= '2024-01-01' AND order_date < '2025-01-01'"`,
		RunE: withApp(v, session.RouteCompare, func(cmd *cobra.Command, a *app, args []string) error {
			queries := append([]string(nil), args...)
			files, _ := cmd.Flags().GetStringArray("file")
			for _, f := range files {
				sql, err := readFile(cmd.InOrStdin(), f)
				if err != nil {
					return err
				}
				queries = append(queries, sql)
			}

			cmp, err := a.queries.Compare(cmd.Context(), queries)
			if err != nil {
				return err
			}
			a.render.Comparison(cmp.Outcomes, cmp.Result)
			return nil
		}),
	}
	cmd.Flags().StringArrayP("file", "f", nil, "read a query from a file (repeatable, - for stdin)")
	return cmd
}

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List sample queries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, q := range sampleQueries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
			}
		},
	}
}

func addSQLFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "read SQL from a file (- for stdin)")
	cmd.Flags().Int("sample", 0, "run the numbered sample query (see 'querylab samples')")
}

// readSQL resolves the SQL text of query and explain.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	sample, _ := cmd.Flags().GetInt("sample")

	switch {
	case sample != 0:
		if sample < 1 || sample > len(sampleQueries) {
			return "", errors.Newf(errors.CodeInvalidRequest, "sample must be between 1 and %d", len(sampleQueries))
		}
		return sampleQueries[sample-1], nil
	case file != "":
		return readFile(cmd.InOrStdin(), file)
	default:
		return strings.Join(args, " "), nil
	}
}

func readFile(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read SQL: %w", err)
	}
	return string(data), nil
}
