package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"emocorpus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.PoolDir = filepath.Join(base, "pool")
	cfgVal.Paths.FeaturesDir = filepath.Join(base, "features")
	cfgVal.Paths.TablesDir = filepath.Join(base, "tables")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Extractor.OpenSMILEDir = filepath.Join(base, "opensmile")
	cfgVal.Extractor.TimeoutSeconds = 10
	cfgVal.Workflow.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDatasetRoots points every dataset root at a directory under the base dir.
func WithDatasetRoots() ConfigOption {
	return func(b *configBuilder) {
		root := filepath.Join(b.baseDir, "datasets")
		b.cfg.Datasets.TESSDir = filepath.Join(root, "tess")
		b.cfg.Datasets.SAVEEDir = filepath.Join(root, "savee")
		b.cfg.Datasets.RAVDESSDir = filepath.Join(root, "ravdess")
		b.cfg.Datasets.CREMADDir = filepath.Join(root, "cremad")
	}
}

// WithWorkers overrides the worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = n
	}
}

// WithExtractorScript writes an executable shell script as the extractor
// binary and an empty feature set config for it to reference.
func WithExtractorScript(script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "SMILExtract")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub extractor: %v", err)
		}
		b.cfg.Extractor.Binary = target

		confPath := b.cfg.ExtractorConfigPath()
		if err := os.MkdirAll(filepath.Dir(confPath), 0o755); err != nil {
			b.t.Fatalf("mkdir extractor config dir: %v", err)
		}
		if err := os.WriteFile(confPath, []byte("; stub\n"), 0o644); err != nil {
			b.t.Fatalf("write extractor config: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
