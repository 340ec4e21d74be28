package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	required := map[string]string{
		"paths.pool_dir":     c.Paths.PoolDir,
		"paths.features_dir": c.Paths.FeaturesDir,
		"paths.tables_dir":   c.Paths.TablesDir,
		"paths.state_dir":    c.Paths.StateDir,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Paths.FeaturesDir == c.Paths.TablesDir {
		return errors.New("paths.features_dir and paths.tables_dir must differ")
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if c.Extractor.TimeoutSeconds <= 0 {
		return errors.New("extractor.timeout_seconds must be positive")
	}
	if len(c.Extractor.CSVSeparator) != 1 {
		return fmt.Errorf("extractor.csv_separator must be a single character, got %q", c.Extractor.CSVSeparator)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
