package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggmark/internal/job"
	"github.com/gogpu/ggmark/visual"
)

func newInspectCmd() *cobra.Command {
	var (
		attrs  []string
		format string
	)
	cmd := &cobra.Command{
		Use:   "inspect JOB",
		Short: "Print resolved label attributes per row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(cmd.Context(), args[0], cmd.Flags())
			if err != nil {
				return err
			}
			tab, err := j.Inspect()
			if err != nil {
				return err
			}
			return renderInspect(cmd.OutOrStdout(), tab, attrs, format)
		},
	}
	cmd.Flags().StringSliceVarP(&attrs, "attr", "a", nil, "attributes to show (default: all)")
	cmd.Flags().StringVarP(&format, "table-format", "f", "table", "table, csv or markdown")
	return cmd
}

func renderInspect(w io.Writer, tab *job.Table, attrs []string, format string) error {
	cols := make([]int, 0, len(tab.Attrs))
	for i, a := range tab.Attrs {
		if len(attrs) == 0 || slices.Contains(attrs, a) {
			cols = append(cols, i)
		}
	}
	for _, a := range attrs {
		if !slices.Contains(tab.Attrs, a) {
			return fmt.Errorf("attribute %q is not resolved", a)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Attribute names are case sensitive; keep headers as declared.
	t.Style().Format.Header = text.FormatDefault

	header := table.Row{"#"}
	for _, c := range cols {
		header = append(header, tab.Attrs[c])
	}
	t.AppendHeader(header)

	for i, r := range tab.Rows {
		row := table.Row{i}
		for _, c := range cols {
			row = append(row, formatValue(r[c]))
		}
		t.AppendRow(row)
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "markdown", "md":
		t.RenderMarkdown()
	case "table", "":
		t.Render()
		fmt.Fprintf(w, "(%d rows)\n", len(tab.Rows))
	default:
		return fmt.Errorf("unknown table format %q", format)
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(x, 'g', 6, 64)
	case gg.LineJoin:
		if name := visual.JoinName(x); name != "" {
			return name
		}
	case gg.LineCap:
		if name := visual.CapName(x); name != "" {
			return name
		}
	}
	return fmt.Sprint(v)
}
