package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkginfo/internal/cli/config"
	"github.com/leapstack-labs/pkginfo/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext whose renderer writes to outFile,
// or to the command's output when outFile is empty.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, outFile string) (*CommandContext, func(), error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	out := cmd.OutOrStdout()
	cleanup := func() {}
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		out = f
		cleanup = func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "path", outFile, "error", err)
			}
		}
		logger.Debug("writing output to file", "path", outFile)
	}

	r := output.NewRenderer(out, cmd.ErrOrStderr(), mode)
	r.SetIndent(cfg.Indent)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, cleanup, nil
}

// getConfig returns the configuration loaded by the root command, loading
// defaults, file and environment when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}
