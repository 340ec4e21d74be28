// Package services defines shared utilities consumed by the batch drivers and
// the external extractor integration.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, dataset names, and
//     file paths for logging.
//   - Structured error markers plus the Wrap helper that keep per-file
//     failures classifiable (external tool vs validation vs configuration)
//     once they reach the journal and metrics.
//
// Use these helpers when wiring new stages so per-file error handling and
// observability stay uniform across the pipeline.
package services
