package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. It also resolves the rule
// table, so malformed rules surface here instead of at organize time.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if _, err := c.RuleTable(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ValidateLogLevel accepts debug, info, warn and error, in any case.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%q must be one of debug, info, warn, error", level)
	}
}

func (c *Config) validateOrganize() error {
	if c.Organize.LockTimeoutSeconds < 0 {
		return errors.New("organize.lock_timeout_seconds must be >= 0")
	}
	return nil
}
