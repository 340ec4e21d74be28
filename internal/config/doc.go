// Package config loads, normalizes, and validates emocorpus configuration.
//
// Configuration lives in a TOML file (default ~/.config/emocorpus/config.toml,
// falling back to ./emocorpus.toml) decoded over Default(). Normalization
// expands ~ and relative paths, applies SMILEXTRACT_BIN and OPENSMILE_DIR
// environment overrides, and fills derived defaults before Validate runs.
//
// The label and table cores never import this package; batch drivers receive
// a *Config explicitly.
package config
