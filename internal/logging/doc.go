// Package logging builds the slog loggers used by emocorpus commands.
//
// Console output goes to stderr in a compact line format or as JSON, and
// every record is also appended as a JSON line to the run log in the state
// directory. Context helpers attach the run and file being processed so a
// single failure can be traced across both outputs.
package logging
