package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"emocorpus/internal/config"
	"emocorpus/internal/dataset"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SMILEXTRACT_BIN", "")
	t.Setenv("OPENSMILE_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantPool := filepath.Join(tempHome, ".local", "share", "emocorpus", "combined_wav")
	if cfg.Paths.PoolDir != wantPool {
		t.Fatalf("unexpected pool dir: got %q want %q", cfg.Paths.PoolDir, wantPool)
	}
	if cfg.Extractor.Binary != "SMILExtract" {
		t.Fatalf("unexpected extractor binary: %q", cfg.Extractor.Binary)
	}
	if cfg.Extractor.ConfigFile != "egemaps/v01a/eGeMAPSv01a.conf" {
		t.Fatalf("unexpected extractor config: %q", cfg.Extractor.ConfigFile)
	}
	if cfg.Workflow.Workers != runtime.NumCPU() {
		t.Fatalf("expected workers to default to NumCPU, got %d", cfg.Workflow.Workers)
	}
	if !cfg.Workflow.Resume {
		t.Fatal("expected resume enabled by default")
	}
	for _, kind := range dataset.Kinds() {
		if cfg.DatasetRoot(kind) != "" {
			t.Fatalf("expected %s root to be empty by default", kind)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.PoolDir, cfg.Paths.FeaturesDir, cfg.Paths.TablesDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "emocorpus.toml")
	t.Setenv("SMILEXTRACT_BIN", "")

	type payload struct {
		Paths struct {
			PoolDir string `toml:"pool_dir"`
		} `toml:"paths"`
		Datasets struct {
			SAVEEDir string `toml:"savee_dir"`
		} `toml:"datasets"`
		Extractor struct {
			OpenSMILEDir string `toml:"opensmile_dir"`
			ConfigFile   string `toml:"config_file"`
		} `toml:"extractor"`
		Workflow struct {
			Workers int `toml:"workers"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.Paths.PoolDir = filepath.Join(tempDir, "pool")
	custom.Datasets.SAVEEDir = filepath.Join(tempDir, "SAVEE")
	custom.Extractor.OpenSMILEDir = filepath.Join(tempDir, "opensmile")
	custom.Extractor.ConfigFile = "egemaps/v02/eGeMAPSv02.conf"
	custom.Workflow.Workers = 3
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.PoolDir != filepath.Join(tempDir, "pool") {
		t.Fatalf("unexpected pool dir %q", cfg.Paths.PoolDir)
	}
	if cfg.DatasetRoot(dataset.SAVEE) != filepath.Join(tempDir, "SAVEE") {
		t.Fatalf("unexpected SAVEE root %q", cfg.DatasetRoot(dataset.SAVEE))
	}
	if cfg.Workflow.Workers != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.Workflow.Workers)
	}
	want := filepath.Join(tempDir, "opensmile", "config", "egemaps", "v02", "eGeMAPSv02.conf")
	if cfg.ExtractorConfigPath() != want {
		t.Fatalf("unexpected extractor config path: got %q want %q", cfg.ExtractorConfigPath(), want)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "emocorpus.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvOverridesExtractor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SMILEXTRACT_BIN", "/opt/opensmile/bin/SMILExtract")
	t.Setenv("OPENSMILE_DIR", "/opt/opensmile")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extractor.Binary != "/opt/opensmile/bin/SMILExtract" {
		t.Fatalf("unexpected binary %q", cfg.Extractor.Binary)
	}
	if cfg.ExtractorConfigPath() != "/opt/opensmile/config/egemaps/v01a/eGeMAPSv01a.conf" {
		t.Fatalf("unexpected config path %q", cfg.ExtractorConfigPath())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"timeout", func(c *config.Config) { c.Extractor.TimeoutSeconds = 0 }, "extractor.timeout_seconds"},
		{"separator", func(c *config.Config) { c.Extractor.CSVSeparator = ";;" }, "extractor.csv_separator"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"same dirs", func(c *config.Config) { c.Paths.TablesDir = c.Paths.FeaturesDir }, "must differ"},
		{"empty pool", func(c *config.Config) { c.Paths.PoolDir = "" }, "paths.pool_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Workflow.Workers != runtime.NumCPU() {
		t.Fatalf("expected workers=0 in sample to normalize to NumCPU, got %d", cfg.Workflow.Workers)
	}
	if !cfg.Export.Metrics {
		t.Fatal("expected metrics export enabled in sample")
	}
}
