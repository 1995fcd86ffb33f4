// Package config provides configuration management for the pkginfo CLI.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// pkginfo.yaml file, variables from a .env file, PKGINFO_ environment
// variables and explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/pkginfo/internal/query"
	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	// Credentials is a service account key file. Empty uses application
	// default credentials.
	Credentials string `koanf:"credentials"`
	// Project is the billing project for query jobs.
	Project       string        `koanf:"project"`
	Table         string        `koanf:"table"`
	Limit         int           `koanf:"limit"`
	StartDate     string        `koanf:"start_date"`
	EndDate       string        `koanf:"end_date"`
	AllInstallers bool          `koanf:"all_installers"`
	LegacySQL     bool          `koanf:"legacy_sql"`
	Timeout       time.Duration `koanf:"timeout"`
	Output        string        `koanf:"output"`
	Indent        int           `koanf:"indent"`
	Verbose       bool          `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // TTY=text, non-TTY=markdown
	DefaultIndent = 2
	EnvPrefix     = "PKGINFO_"
)

// QueryConfig derives the warehouse options for one invocation.
func (c *Config) QueryConfig(dryRun bool) core.QueryConfig {
	return core.NewQueryConfig().
		WithLegacySQL(c.LegacySQL).
		WithDryRun(dryRun).
		WithJobTimeout(c.Timeout)
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"table":          query.DefaultTable,
		"limit":          query.DefaultLimit,
		"start_date":     query.DefaultStartDate,
		"end_date":       query.DefaultEndDate,
		"all_installers": false,
		"legacy_sql":     true,
		"timeout":        core.DefaultJobTimeout.String(),
		"output":         DefaultOutput,
		"indent":         DefaultIndent,
		"verbose":        false,
	}
}
