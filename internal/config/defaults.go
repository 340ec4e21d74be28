package config

import "runtime"

const (
	defaultConfigPath         = "~/.config/emocorpus/config.toml"
	defaultPoolDir            = "~/.local/share/emocorpus/combined_wav"
	defaultFeaturesDir        = "~/.local/share/emocorpus/egemaps"
	defaultTablesDir          = "~/.local/share/emocorpus/egemaps_clean"
	defaultStateDir           = "~/.local/share/emocorpus/state"
	defaultExtractorBinary    = "SMILExtract"
	defaultExtractorConfig    = "egemaps/v01a/eGeMAPSv01a.conf"
	defaultExtractorTimeout   = 300
	defaultExtractorSeparator = ";"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PoolDir:     defaultPoolDir,
			FeaturesDir: defaultFeaturesDir,
			TablesDir:   defaultTablesDir,
			StateDir:    defaultStateDir,
		},
		Extractor: Extractor{
			Binary:         defaultExtractorBinary,
			ConfigFile:     defaultExtractorConfig,
			TimeoutSeconds: defaultExtractorTimeout,
			CSVSeparator:   defaultExtractorSeparator,
		},
		Workflow: Workflow{
			Workers:      runtime.NumCPU(),
			Resume:       true,
			VerifyCopies: false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Export: Export{
			Metrics: true,
		},
	}
}
