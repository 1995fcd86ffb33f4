package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkginfo/internal/query"
	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields downloads can be grouped by",
		Long: `List every field accepted after the project name, with the column it
produces and a short description. "percent" is not a column: it adds a
percentage of the total next to each count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd, "")
			if err != nil {
				return err
			}
			defer cleanup()

			return cctx.Renderer.RenderTable(fieldsTable())
		},
	}
}

func fieldsTable() core.Table {
	fields := query.Fields()
	t := make(core.Table, 0, len(fields)+2)
	t = append(t, core.Row{"field", "column", "description"})
	for _, f := range fields {
		t = append(t, core.Row{f.Name, f.Column, f.Description})
	}
	return append(t, core.Row{query.PercentField, "percent", "Share of the total downloads"})
}
