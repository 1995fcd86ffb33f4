// Package warehouse runs report queries against BigQuery and converts the
// results into core tables.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// NullCell is the text written for NULL values.
const NullCell = "None"

// jobIDPrefix marks jobs started by this tool in the BigQuery job history.
const jobIDPrefix = "pkginfo-"

// ErrJobFailed wraps errors reported by a finished BigQuery job.
var ErrJobFailed = errors.New("query job failed")

// Executor runs a query and returns its rows.
type Executor interface {
	Query(ctx context.Context, cfg core.QueryConfig, sql string) (*Result, error)
	Close() error
}

// Stats describes the cost of a finished job.
type Stats struct {
	Cached         bool  `json:"cached"`
	BytesProcessed int64 `json:"bytes_processed"`
	BytesBilled    int64 `json:"bytes_billed"`
}

// Result is the outcome of a query: the rows, header first, and the job statistics.
// Dry runs return a header-only table.
type Result struct {
	JobID string
	Table core.Table
	Stats Stats
}

// Options configures the BigQuery client.
type Options struct {
	// ProjectID is the billing project. Empty detects it from the credentials.
	ProjectID string
	// CredentialsFile is a service account JSON key. Empty uses application
	// default credentials.
	CredentialsFile string
	Logger          *slog.Logger
}

// Client is an Executor backed by BigQuery.
type Client struct {
	bq     *bigquery.Client
	logger *slog.Logger
}

// NewClient creates a BigQuery client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	projectID := opts.ProjectID
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	bq, err := bigquery.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{bq: bq, logger: logger}, nil
}

// Close releases the client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// Query runs sql and reads every result row.
func (c *Client) Query(ctx context.Context, cfg core.QueryConfig, sql string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.JobTimeout())
	defer cancel()

	q := c.bq.Query(sql)
	q.UseLegacySQL = cfg.UseLegacySQL()
	q.DryRun = cfg.DryRun()
	q.JobIDConfig = bigquery.JobIDConfig{JobID: jobIDPrefix + uuid.NewString()}

	start := time.Now()
	c.logger.Debug("starting query job", "job_id", q.JobID, "legacy_sql", q.UseLegacySQL, "dry_run", q.DryRun)

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start query: %w", err)
	}

	if cfg.DryRun() {
		status := job.LastStatus()
		return &Result{
			JobID: job.ID(),
			Table: core.Table{},
			Stats: statsFrom(status),
		}, nil
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for job %s: %w", job.ID(), err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrJobFailed, job.ID(), err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read results of job %s: %w", job.ID(), err)
	}

	table, err := readTable(it)
	if err != nil {
		return nil, err
	}

	stats := statsFrom(status)
	c.logger.Debug("query job finished",
		"job_id", job.ID(),
		"rows", len(table.Data()),
		"cached", stats.Cached,
		"bytes_processed", stats.BytesProcessed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return &Result{JobID: job.ID(), Table: table, Stats: stats}, nil
}

func readTable(it *bigquery.RowIterator) (core.Table, error) {
	var values [][]bigquery.Value
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		values = append(values, row)
	}
	return ToTable(it.Schema, values), nil
}

// ToTable converts a schema and BigQuery rows into a table whose header holds
// the schema field names.
func ToTable(schema bigquery.Schema, values [][]bigquery.Value) core.Table {
	header := make(core.Row, len(schema))
	for i, f := range schema {
		header[i] = f.Name
	}

	table := make(core.Table, 0, len(values)+1)
	table = append(table, header)
	for _, row := range values {
		cells := make(core.Row, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = FormatValue(row[i])
			} else {
				cells[i] = NullCell
			}
		}
		table = append(table, cells)
	}
	return table
}

// FormatValue renders a BigQuery cell as text.
func FormatValue(v bigquery.Value) string {
	switch x := v.(type) {
	case nil:
		return NullCell
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func statsFrom(status *bigquery.JobStatus) Stats {
	if status == nil || status.Statistics == nil {
		return Stats{}
	}
	stats := Stats{BytesProcessed: status.Statistics.TotalBytesProcessed}
	if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		stats.Cached = qs.CacheHit
		stats.BytesBilled = qs.TotalBytesBilled
	}
	return stats
}
