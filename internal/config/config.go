package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"emocorpus/internal/dataset"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the working directories of the pipeline.
type Paths struct {
	PoolDir     string `toml:"pool_dir"`
	FeaturesDir string `toml:"features_dir"`
	TablesDir   string `toml:"tables_dir"`
	StateDir    string `toml:"state_dir"`
}

// Datasets contains the roots of each source corpus. Empty roots are skipped.
type Datasets struct {
	TESSDir    string `toml:"tess_dir"`
	SAVEEDir   string `toml:"savee_dir"`
	RAVDESSDir string `toml:"ravdess_dir"`
	CREMADDir  string `toml:"cremad_dir"`
}

// Extractor contains the openSMILE invocation settings.
type Extractor struct {
	Binary         string `toml:"binary"`
	OpenSMILEDir   string `toml:"opensmile_dir"`
	ConfigFile     string `toml:"config_file"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CSVSeparator   string `toml:"csv_separator"`
}

// Workflow contains batch execution settings.
type Workflow struct {
	Workers      int  `toml:"workers"`
	Resume       bool `toml:"resume"`
	VerifyCopies bool `toml:"verify_copies"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Export contains optional output formats for converted tables.
type Export struct {
	XLSX    bool `toml:"xlsx"`
	Metrics bool `toml:"metrics"`
}

// Config encapsulates all configuration values for emocorpus.
//
// Configuration sections by subsystem:
//   - Paths: pool, feature export, table, and state directories
//   - Datasets: source corpus roots
//   - Extractor: SMILExtract binary, openSMILE tree, and feature set config
//   - Workflow: batch concurrency and resume behaviour
//   - Logging: log format and level
//   - Export: optional xlsx tables and metrics textfile
type Config struct {
	Paths     Paths     `toml:"paths"`
	Datasets  Datasets  `toml:"datasets"`
	Extractor Extractor `toml:"extractor"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
	Export    Export    `toml:"export"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("emocorpus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.PoolDir, c.Paths.FeaturesDir, c.Paths.TablesDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatasetRoot returns the configured root for kind, or "" when unset.
func (c *Config) DatasetRoot(kind dataset.Kind) string {
	switch kind {
	case dataset.TESS:
		return c.Datasets.TESSDir
	case dataset.SAVEE:
		return c.Datasets.SAVEEDir
	case dataset.RAVDESS:
		return c.Datasets.RAVDESSDir
	case dataset.CREMAD:
		return c.Datasets.CREMADDir
	default:
		return ""
	}
}

// ExtractorConfigPath returns the absolute path of the feature set config.
func (c *Config) ExtractorConfigPath() string {
	if filepath.IsAbs(c.Extractor.ConfigFile) {
		return c.Extractor.ConfigFile
	}
	return filepath.Join(c.Extractor.OpenSMILEDir, "config", c.Extractor.ConfigFile)
}

// ExtractorTimeout returns the per-file extractor timeout.
func (c *Config) ExtractorTimeout() time.Duration {
	return time.Duration(c.Extractor.TimeoutSeconds) * time.Second
}

// JournalPath returns the sqlite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockPath returns the batch lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "emocorpus.lock")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "emocorpus.log")
}

// MetricsPath returns the node-exporter textfile location.
func (c *Config) MetricsPath() string {
	return filepath.Join(c.Paths.StateDir, "emocorpus.prom")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
