package core

import "time"

// DefaultJobTimeout bounds a single warehouse job.
const DefaultJobTimeout = 120 * time.Second

// QueryConfig holds the warehouse options for one invocation.
// It is created once and never modified; use the With* methods to derive a copy.
type QueryConfig struct {
	useLegacySQL bool
	dryRun       bool
	jobTimeout   time.Duration
}

// NewQueryConfig returns the default configuration: legacy SQL dialect,
// real execution and DefaultJobTimeout.
func NewQueryConfig() QueryConfig {
	return QueryConfig{
		useLegacySQL: true,
		jobTimeout:   DefaultJobTimeout,
	}
}

// UseLegacySQL reports whether queries are written in the legacy SQL dialect.
func (c QueryConfig) UseLegacySQL() bool { return c.useLegacySQL }

// DryRun reports whether the warehouse should only validate and price the query.
func (c QueryConfig) DryRun() bool { return c.dryRun }

// JobTimeout returns the maximum duration of a warehouse job.
func (c QueryConfig) JobTimeout() time.Duration { return c.jobTimeout }

// WithLegacySQL returns a copy of c with the dialect flag set.
func (c QueryConfig) WithLegacySQL(v bool) QueryConfig {
	c.useLegacySQL = v
	return c
}

// WithDryRun returns a copy of c with the dry-run flag set.
func (c QueryConfig) WithDryRun(v bool) QueryConfig {
	c.dryRun = v
	return c
}

// WithJobTimeout returns a copy of c with the given timeout.
// Non-positive values keep the current timeout.
func (c QueryConfig) WithJobTimeout(d time.Duration) QueryConfig {
	if d > 0 {
		c.jobTimeout = d
	}
	return c
}
