package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pkginfo/internal/query"
	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// isolate keeps the user's own config directory out of the search path.
func isolate(t *testing.T) {
	t.Helper()
	ResetConfig()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkginfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// testFlags mirrors the flags registered by the root command.
func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("auth", "a", "", "")
	flags.String("billing-project", "", "")
	flags.StringP("start-date", "s", "", "")
	flags.StringP("end-date", "e", "", "")
	flags.IntP("limit", "l", 0, "")
	flags.StringP("where", "w", "", "")
	flags.Bool("all", false, "")
	flags.Duration("timeout", 0, "")
	flags.Int("indent", 0, "")
	flags.BoolP("json", "j", false, "")
	flags.BoolP("markdown", "m", false, "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, query.DefaultTable, cfg.Table)
	assert.Equal(t, query.DefaultLimit, cfg.Limit)
	assert.Equal(t, query.DefaultStartDate, cfg.StartDate)
	assert.Equal(t, query.DefaultEndDate, cfg.EndDate)
	assert.Equal(t, core.DefaultJobTimeout, cfg.Timeout)
	assert.True(t, cfg.LegacySQL)
	assert.False(t, cfg.AllInstallers)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultIndent, cfg.Indent)
	assert.Empty(t, cfg.Credentials)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t, `credentials: /keys/service.json
project: my-billing
limit: 5
timeout: 30s
output: json
legacy_sql: false
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, "/keys/service.json", cfg.Credentials)
	assert.Equal(t, "my-billing", cfg.Project)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Output)
	assert.False(t, cfg.LegacySQL)
	assert.Equal(t, query.DefaultTable, cfg.Table, "unset keys keep their default")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t, "limit: 5\n")
	t.Setenv("PKGINFO_LIMIT", "6")

	flags := testFlags()
	require.NoError(t, flags.Set("limit", "7"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Limit, "flag value should override config file and env var")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t, "start_date: \"2018-01-01\"\n")
	t.Setenv("PKGINFO_START_DATE", "-7")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "-7", cfg.StartDate, "env var should override config file")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t, "limit: 5\n")
	t.Setenv("PKGINFO_LIMIT", "6")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Limit, "env var should be used when flag is not set")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t, "indent: 4\n")
	dotEnv := "PKGINFO_INDENT=8\nPKGINFO_VERBOSE=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfgPath), ".env"), []byte(dotEnv), 0600))
	t.Setenv("PKGINFO_VERBOSE", "false")
	t.Cleanup(func() { _ = os.Unsetenv("PKGINFO_INDENT") })

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Indent, ".env should override the config file")
	assert.False(t, cfg.Verbose, "the process environment should override .env")
}

func TestLoadConfig_FlagMapping(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "auth sets credentials", flag: "auth", value: "key.json",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "key.json", cfg.Credentials) },
		},
		{
			name: "billing project", flag: "billing-project", value: "billing",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "billing", cfg.Project) },
		},
		{
			name: "all sets all installers", flag: "all", value: "true",
			check: func(t *testing.T, cfg *Config) { assert.True(t, cfg.AllInstallers) },
		},
		{
			name: "end date", flag: "end-date", value: "2017-06",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "2017-06", cfg.EndDate) },
		},
		{
			name: "timeout", flag: "timeout", value: "45s",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 45*time.Second, cfg.Timeout) },
		},
		{
			name: "json selects json output", flag: "json", value: "true",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "json", cfg.Output) },
		},
		{
			name: "markdown selects markdown output", flag: "markdown", value: "true",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "markdown", cfg.Output) },
		},
		{
			name: "explicit false json keeps output", flag: "json", value: "false",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultOutput, cfg.Output) },
		},
		{
			name: "non-config flag is ignored", flag: "where", value: "country_code = \"DE\"",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, query.DefaultLimit, cfg.Limit) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			flags := testFlags()
			require.NoError(t, flags.Set(tt.flag, tt.value))

			cfg, err := LoadConfig("", flags)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"negative limit", "limit: -1\n", "limit must not be negative"},
		{"negative indent", "indent: -2\n", "indent must not be negative"},
		{"unknown output", "output: xml\n", "unknown output format"},
		{"empty table", "table: \"\"\n", "table is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_QueryConfig(t *testing.T) {
	cfg := &Config{LegacySQL: false, Timeout: 10 * time.Second}

	qc := cfg.QueryConfig(true)
	assert.False(t, qc.UseLegacySQL())
	assert.True(t, qc.DryRun())
	assert.Equal(t, 10*time.Second, qc.JobTimeout())

	qc = (&Config{LegacySQL: true}).QueryConfig(false)
	assert.True(t, qc.UseLegacySQL())
	assert.False(t, qc.DryRun())
	assert.Equal(t, core.DefaultJobTimeout, qc.JobTimeout(), "zero timeout keeps the default")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "missing logger falls back to discard")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
