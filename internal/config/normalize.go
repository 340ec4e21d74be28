package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDatasets(); err != nil {
		return err
	}
	if err := c.normalizeExtractor(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.PoolDir, err = expandPath(c.Paths.PoolDir); err != nil {
		return fmt.Errorf("paths.pool_dir: %w", err)
	}
	if c.Paths.FeaturesDir, err = expandPath(c.Paths.FeaturesDir); err != nil {
		return fmt.Errorf("paths.features_dir: %w", err)
	}
	if c.Paths.TablesDir, err = expandPath(c.Paths.TablesDir); err != nil {
		return fmt.Errorf("paths.tables_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatasets() error {
	fields := []struct {
		key   string
		value *string
	}{
		{"datasets.tess_dir", &c.Datasets.TESSDir},
		{"datasets.savee_dir", &c.Datasets.SAVEEDir},
		{"datasets.ravdess_dir", &c.Datasets.RAVDESSDir},
		{"datasets.cremad_dir", &c.Datasets.CREMADDir},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeExtractor() error {
	if value, ok := os.LookupEnv("SMILEXTRACT_BIN"); ok && strings.TrimSpace(value) != "" {
		c.Extractor.Binary = value
	}
	c.Extractor.Binary = strings.TrimSpace(c.Extractor.Binary)
	if c.Extractor.Binary == "" {
		c.Extractor.Binary = defaultExtractorBinary
	}
	if strings.ContainsRune(c.Extractor.Binary, '/') || strings.HasPrefix(c.Extractor.Binary, "~") {
		expanded, err := expandPath(c.Extractor.Binary)
		if err != nil {
			return fmt.Errorf("extractor.binary: %w", err)
		}
		c.Extractor.Binary = expanded
	}

	if c.Extractor.OpenSMILEDir == "" {
		if value, ok := os.LookupEnv("OPENSMILE_DIR"); ok {
			c.Extractor.OpenSMILEDir = value
		}
	}
	var err error
	if c.Extractor.OpenSMILEDir, err = expandPath(strings.TrimSpace(c.Extractor.OpenSMILEDir)); err != nil {
		return fmt.Errorf("extractor.opensmile_dir: %w", err)
	}

	c.Extractor.ConfigFile = strings.TrimSpace(c.Extractor.ConfigFile)
	if c.Extractor.ConfigFile == "" {
		c.Extractor.ConfigFile = defaultExtractorConfig
	}
	if c.Extractor.CSVSeparator == "" {
		c.Extractor.CSVSeparator = defaultExtractorSeparator
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
