package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/pkginfo/pkg/core"
	"github.com/leapstack-labs/pkginfo/pkg/report"
)

// renderBoxed draws the table with box characters, right-aligning numeric columns.
func (r *Renderer) renderBoxed(rows core.Table) error {
	if len(rows) == 0 {
		return nil
	}

	kinds := report.ClassifyColumns(rows)
	cells := report.FormatCells(rows, kinds)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	configs := make([]table.ColumnConfig, 0, len(kinds))
	for i, kind := range kinds {
		if kind == report.Numeric {
			configs = append(configs, table.ColumnConfig{
				Number:      i + 1,
				Align:       text.AlignRight,
				AlignHeader: text.AlignRight,
			})
		}
	}
	t.SetColumnConfigs(configs)

	t.AppendHeader(toPrettyRow(cells.Header()))
	for _, row := range cells.Data() {
		t.AppendRow(toPrettyRow(row))
	}

	t.Render()
	return nil
}

func toPrettyRow(row core.Row) table.Row {
	out := make(table.Row, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
