// Package metrics collects batch counters in a private Prometheus registry
// and writes them as a node-exporter textfile after each run.
//
// A nil *Collector is valid and records nothing, so callers can disable
// metrics without branching.
package metrics
