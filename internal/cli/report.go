package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rakeshthota234/Online-Retail-Application/internal/report"
)

// ReportTable is a report result.
type ReportTable struct {
	report.Table
	Truncated bool `json:"truncated,omitempty"`
}

// WriteText implements textWriter.
func (t ReportTable) WriteText(w io.Writer) error {
	if err := writeTable(w, t.Columns, t.Rows); err != nil {
		return err
	}
	if t.Truncated {
		_, err := fmt.Fprintf(w, "(showing first %d rows)\n", len(t.Rows))
		return err
	}
	return nil
}

// TableInfo names a browsable table and its columns.
type TableInfo struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// ReportCatalog lists browsable tables and predefined reports.
type ReportCatalog struct {
	Tables  []TableInfo  `json:"tables"`
	Reports []ReportInfo `json:"reports"`
}

// ReportInfo describes a predefined report.
type ReportInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

// WriteText implements textWriter.
func (c ReportCatalog) WriteText(w io.Writer) error {
	fmt.Fprintln(w, "Tables:")
	for _, t := range c.Tables {
		fmt.Fprintf(w, "  %s (%s)\n", t.Table, strings.Join(t.Columns, ", "))
	}
	fmt.Fprintln(w, "Reports:")
	for _, r := range c.Reports {
		fmt.Fprintf(w, "  %s [%s]: %s\n", r.Name, strings.Join(r.Params, ", "), r.Description)
	}
	return nil
}

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read-only structured queries over the database",
		Long: `Browse tables and run predefined reports. Queries are built from
known table and column names with bound parameters, run on a query-only
connection and capped at report.max_rows rows.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tables",
		Short: "List browsable tables and predefined reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			var c ReportCatalog
			for _, name := range report.Tables() {
				cols, err := report.VisibleColumns(name)
				if err != nil {
					return out.Fail("list columns", err)
				}
				c.Tables = append(c.Tables, TableInfo{Table: name, Columns: cols})
			}
			for _, n := range report.Reports {
				c.Reports = append(c.Reports, ReportInfo{Name: n.Name, Description: n.Description, Params: n.Params})
			}
			return out.Success(c)
		},
	})

	var limit int
	view := &cobra.Command{
		Use:   "view <table>",
		Short: "Show the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(rootOpts, cmd, func(ctx context.Context, r *report.Runner) (report.Table, error) {
				return r.Run(ctx, report.Select{From: args[0], Limit: limit})
			})
		},
	}
	view.Flags().IntVar(&limit, "limit", 0, "maximum rows (default report.max_rows)")
	cmd.AddCommand(view)

	var params map[string]string
	run := &cobra.Command{
		Use:   "run <report>",
		Short: "Run a predefined report",
		Long: `Run a predefined report. Parameters are given as --param key=value.

Example:
  retail report run customer-orders --param email=a@b.com
  retail report run order-lines --param order_id=123456`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(rootOpts, cmd, func(ctx context.Context, r *report.Runner) (report.Table, error) {
				return r.RunNamed(ctx, args[0], params)
			})
		},
	}
	run.Flags().StringToStringVar(&params, "param", nil, "report parameter as key=value (repeatable)")
	cmd.AddCommand(run)

	return cmd
}

func withReports(opts *RootOptions, cmd *cobra.Command, query func(context.Context, *report.Runner) (report.Table, error)) error {
	a, err := loadApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := os.Stat(a.cfg.Database); err != nil {
		return a.out.Fail("database not found", err)
	}
	runner, err := report.Open(a.cfg.Database, a.cfg.Report.MaxRows)
	if err != nil {
		return a.out.Fail("failed to open database", err)
	}
	defer runner.Close()

	tbl, err := query(cmd.Context(), runner)
	if err != nil {
		return a.out.Fail("report failed", err)
	}
	return a.out.Success(ReportTable{Table: tbl, Truncated: len(tbl.Rows) >= runner.MaxRows()})
}
