package config

import (
	"fmt"

	"github.com/leapstack-labs/pkginfo/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return err
	}
	return nil
}
