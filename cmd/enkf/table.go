package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/milosgajdos/go-enkf/metrics"
)

func newTable(w io.Writer, styleName string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleDefault
	switch styleName {
	case "bold":
		style = table.StyleBold
	case "double":
		style = table.StyleDouble
	case "light":
		style = table.StyleLight
	case "round":
		style = table.StyleRounded
	}
	style.Options.SeparateColumns = true
	style.Options.DrawBorder = true
	t.SetStyle(style)

	t.AppendHeader(table.Row{"MODEL", "RMSE", "NRMSE", "NSE"})
	return t
}

func appendReport(t table.Writer, name string, r *metrics.Report) {
	t.AppendRow(table.Row{
		name,
		fmt.Sprintf("%.6f", r.RMSE),
		fmt.Sprintf("%.6f", r.NRMSE),
		fmt.Sprintf("%.6f", r.NSE),
	})
}
