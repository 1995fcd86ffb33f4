package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/pkginfo/internal/cli/output"
	"github.com/leapstack-labs/pkginfo/internal/query"
	"github.com/leapstack-labs/pkginfo/internal/warehouse"
	"github.com/leapstack-labs/pkginfo/pkg/core"
	"github.com/leapstack-labs/pkginfo/pkg/dates"
	"github.com/leapstack-labs/pkginfo/pkg/report"
)

// ReportOptions holds the report flags that are not part of the configuration.
type ReportOptions struct {
	Month   string
	Where   string
	Order   string
	File    string
	Percent bool
	Test    bool
	DryRun  bool
}

// ExecutorFactory opens a warehouse connection.
type ExecutorFactory func(ctx context.Context, opts warehouse.Options) (warehouse.Executor, error)

// NewBigQueryExecutor is the ExecutorFactory that talks to BigQuery.
func NewBigQueryExecutor(ctx context.Context, opts warehouse.Options) (warehouse.Executor, error) {
	return warehouse.NewClient(ctx, opts)
}

// AddReportFlags registers the report flags on flags. Configuration flags are
// left unbound; the config loader reads them when they are set.
func AddReportFlags(flags *pflag.FlagSet, o *ReportOptions) {
	flags.StringP("auth", "a", "", "Path to a service account key file (default: application default credentials)")
	flags.String("billing-project", "", "Project billed for the query jobs (default: from credentials)")
	flags.StringP("start-date", "s", query.DefaultStartDate, "First day of the report: YYYY-MM-DD, YYYY-MM or a negative day offset")
	flags.StringP("end-date", "e", query.DefaultEndDate, "Last day of the report: YYYY-MM-DD, YYYY-MM or a negative day offset")
	flags.IntP("limit", "l", query.DefaultLimit, "Maximum number of rows, 0 for no limit")
	flags.Bool("all", false, "Count downloads from every installer, not only pip")
	flags.Duration("timeout", core.DefaultJobTimeout, "Maximum duration of the query job")

	flags.StringVar(&o.Month, "month", "", "Report a whole month (YYYY-MM); overrides --start-date and --end-date")
	flags.StringVarP(&o.Where, "where", "w", "", "Extra WHERE condition in legacy SQL")
	flags.StringVar(&o.Order, "order", "", "Field to order by, descending (default: download_count)")
	flags.StringVarP(&o.File, "file", "f", "", "Write the report to a file instead of stdout")
	flags.BoolVar(&o.Percent, "percent", false, "Add a percent column")
	flags.BoolVar(&o.Test, "test", false, "Print the query instead of running it")
	flags.BoolVar(&o.DryRun, "dry-run", false, "Validate and price the query without running it")
}

// RunReport builds the query for a project and its grouping fields, runs it
// and renders the result.
func RunReport(cmd *cobra.Command, args []string, o *ReportOptions, newExecutor ExecutorFactory) error {
	cctx, cleanup, err := NewCommandContext(cmd, o.File)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cctx.Cfg
	r := cctx.Renderer

	var project string
	var fields []string
	if len(args) > 0 {
		project, fields = args[0], args[1:]
	}

	stmt, err := query.Build(query.Options{
		Project:       project,
		Fields:        fields,
		Start:         dates.FromString(cfg.StartDate),
		End:           dates.FromString(cfg.EndDate),
		Month:         o.Month,
		Where:         o.Where,
		Order:         o.Order,
		Limit:         cfg.Limit,
		AllInstallers: cfg.AllInstallers,
		Percent:       o.Percent,
		Table:         cfg.Table,
	})
	if err != nil {
		return err
	}
	cctx.Logger.Debug("built query", "project", project, "fields", fields, "sql", stmt.SQL)

	if o.Test {
		return r.SQL(stmt.SQL)
	}

	ctx := cmd.Context()
	exec, err := newExecutor(ctx, warehouse.Options{
		ProjectID:       cfg.Project,
		CredentialsFile: cfg.Credentials,
		Logger:          cctx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := exec.Close(); err != nil {
			cctx.Logger.Warn("failed to close warehouse client", "error", err)
		}
	}()

	start := time.Now()
	res, err := exec.Query(ctx, cfg.QueryConfig(o.DryRun), stmt.SQL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("query did not finish within %s: %w", cfg.Timeout, err)
		}
		return err
	}
	cctx.Logger.Debug("query finished", "job_id", res.JobID, "duration", time.Since(start).Round(time.Millisecond))

	table, err := augment(res.Table, stmt, r, o.DryRun)
	if err != nil {
		return err
	}
	return r.Render(output.Report{Table: table, Stats: res.Stats})
}

// augment adds the percent column and the total row the statement asks for.
// Machine-readable modes get no total row.
func augment(table core.Table, stmt *query.Statement, r *output.Renderer, dryRun bool) (core.Table, error) {
	if dryRun {
		return table, nil
	}
	if len(table.Data()) == 0 {
		r.Warn("the query returned no rows")
		return table, nil
	}

	var err error
	if stmt.Percent {
		if !stmt.Grouped {
			r.Warn("percent needs at least one grouping field; ignoring it")
		} else if table, err = report.AddPercentages(table); err != nil {
			return nil, err
		}
	}

	if stmt.Grouped && r.Mode() != output.ModeJSON && r.Mode() != output.ModeCSV {
		if table, err = report.AddDownloadTotal(table); err != nil {
			return nil, err
		}
	}
	return table, nil
}
