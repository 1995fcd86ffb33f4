// Package query assembles the legacy SQL statements sent to the warehouse.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/pkginfo/pkg/core"
	"github.com/leapstack-labs/pkginfo/pkg/dates"
)

// Defaults applied by Build when options are left empty.
const (
	DefaultTable     = "the-psf:pypi.downloads"
	DefaultStartDate = "-31"
	DefaultEndDate   = "-1"
	DefaultLimit     = 10
	DefaultInstaller = "pip"
)

// Options describes a download report.
type Options struct {
	// Project restricts downloads to one package. Empty means every package.
	Project string
	// Fields are grouping field names; PercentField may appear among them.
	Fields []string
	// Start and End bound the report. Months expand to their first and last day.
	Start dates.Input
	End   dates.Input
	// Month, when set, overrides Start and End with a whole YYYY-MM month.
	Month string
	// Where is an extra legacy SQL predicate.
	Where string
	// Order is a field name or column to sort by, descending.
	Order string
	// Limit caps the number of rows; zero or less means no limit.
	Limit int
	// AllInstallers includes mirrors and other non-pip installers.
	AllInstallers bool
	// Percent adds a percent column to the result.
	Percent bool
	// Table is the warehouse table, without brackets.
	Table string
}

// Statement is a rendered query together with what the caller needs to
// post-process its result.
type Statement struct {
	SQL string
	// Columns lists the result columns in order.
	Columns []string
	// Percent reports whether a percent column was requested.
	Percent bool
	// Grouped reports whether the result has one row per group.
	Grouped bool
}

// Build renders the query described by opts.
func Build(opts Options) (*Statement, error) {
	var selected []Field
	percent := opts.Percent
	for _, name := range opts.Fields {
		if strings.EqualFold(name, PercentField) {
			percent = true
			continue
		}
		f, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, f)
	}

	start, end, err := resolveRange(opts)
	if err != nil {
		return nil, err
	}

	order, err := resolveOrder(opts.Order, selected)
	if err != nil {
		return nil, err
	}

	table := opts.Table
	if table == "" {
		table = DefaultTable
	}

	columns := make([]string, 0, len(selected)+1)
	var b strings.Builder

	b.WriteString("SELECT\n")
	for _, f := range selected {
		fmt.Fprintf(&b, "  %s as %s,\n", f.Expr, f.Column)
		columns = append(columns, f.Column)
	}
	fmt.Fprintf(&b, "  COUNT(*) as %s,\n", CountColumn)
	columns = append(columns, CountColumn)

	b.WriteString("FROM\n")
	b.WriteString("  TABLE_DATE_RANGE(\n")
	fmt.Fprintf(&b, "    [%s],\n", table)
	fmt.Fprintf(&b, "    %s,\n", start)
	fmt.Fprintf(&b, "    %s\n", end)
	b.WriteString("  )\n")

	if conds := conditions(opts); len(conds) > 0 {
		b.WriteString("WHERE\n")
		b.WriteString("  " + strings.Join(conds, "\n  AND ") + "\n")
	}

	if len(selected) > 0 {
		b.WriteString("GROUP BY\n")
		for _, f := range selected {
			fmt.Fprintf(&b, "  %s,\n", f.Column)
		}
		b.WriteString("ORDER BY\n")
		fmt.Fprintf(&b, "  %s DESC\n", order)
	}

	if opts.Limit > 0 {
		fmt.Fprintf(&b, "LIMIT %d\n", opts.Limit)
	}

	return &Statement{
		SQL:     b.String(),
		Columns: columns,
		Percent: percent,
		Grouped: len(selected) > 0,
	}, nil
}

// resolveRange turns the date options into start and end timestamp expressions.
func resolveRange(opts Options) (string, string, error) {
	start, end := opts.Start, opts.End
	if opts.Month != "" {
		start, end = dates.FromString(opts.Month), dates.FromString(opts.Month)
	}
	if !start.IsInt() && start.String() == "" {
		start = dates.FromString(DefaultStartDate)
	}
	if !end.IsInt() && end.String() == "" {
		end = dates.FromString(DefaultEndDate)
	}

	start, end, err := dates.NormalizeDates(start, end)
	if err != nil {
		return "", "", err
	}

	startDate, err := dates.Classify(start)
	if err != nil {
		return "", "", fmt.Errorf("start date: %w", err)
	}
	endDate, err := dates.Classify(end)
	if err != nil {
		return "", "", fmt.Errorf("end date: %w", err)
	}
	if startDate.Kind == dates.Day && endDate.Kind == dates.Day && startDate.Time.After(endDate.Time) {
		return "", "", fmt.Errorf("%w: start date %s is after end date %s", core.ErrFormat, start, end)
	}
	if startDate.Kind == dates.Relative && endDate.Kind == dates.Relative && startDate.Offset > endDate.Offset {
		return "", "", fmt.Errorf("%w: start date %s is after end date %s", core.ErrFormat, start, end)
	}

	startExpr, err := dates.FormatDate(start.String(), dates.TimestampTemplate)
	if err != nil {
		return "", "", fmt.Errorf("start date: %w", err)
	}
	endExpr, err := dates.FormatDate(end.String(), dates.TimestampTemplate)
	if err != nil {
		return "", "", fmt.Errorf("end date: %w", err)
	}
	return startExpr, endExpr, nil
}

func resolveOrder(order string, selected []Field) (string, error) {
	if order == "" || order == CountColumn {
		return CountColumn, nil
	}
	for _, f := range selected {
		if strings.EqualFold(order, f.Name) || order == f.Column {
			return f.Column, nil
		}
	}
	return "", fmt.Errorf("cannot order by %q: not a selected field", order)
}

func conditions(opts Options) []string {
	var conds []string
	if opts.Project != "" {
		conds = append(conds, "file.project = "+strconv.Quote(core.Normalize(opts.Project)))
	}
	if !opts.AllInstallers {
		conds = append(conds, "details.installer.name = "+strconv.Quote(DefaultInstaller))
	}
	if where := strings.TrimSpace(opts.Where); where != "" {
		conds = append(conds, where)
	}
	return conds
}
