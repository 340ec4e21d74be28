package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels a per-file result.
const (
	OutcomeDone    = "done"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Collector holds the batch metrics.
type Collector struct {
	registry      *prometheus.Registry
	filesTotal    *prometheus.CounterVec
	labelsTotal   *prometheus.CounterVec
	rowsTotal     prometheus.Counter
	nanCellsTotal prometheus.Counter
	skippedLines  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	lastRun       *prometheus.GaugeVec
}

// New builds a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emocorpus_files_total",
				Help: "Files processed per stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		labelsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emocorpus_labels_total",
				Help: "Collected files per dataset and unified emotion code",
			},
			[]string{"dataset", "code"},
		),
		rowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "emocorpus_table_rows_total",
				Help: "Numeric rows written to converted tables",
			},
		),
		nanCellsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "emocorpus_table_nan_cells_total",
				Help: "Feature cells that failed numeric coercion",
			},
		),
		skippedLines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emocorpus_table_skipped_lines_total",
				Help: "Data lines dropped during conversion by reason",
			},
			[]string{"reason"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emocorpus_file_duration_seconds",
				Help:    "Per-file processing time by stage",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"stage"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "emocorpus_last_run_timestamp_seconds",
				Help: "Unix time the last batch command finished",
			},
			[]string{"command"},
		),
	}
	c.registry.MustRegister(
		c.filesTotal,
		c.labelsTotal,
		c.rowsTotal,
		c.nanCellsTotal,
		c.skippedLines,
		c.stageDuration,
		c.lastRun,
	)
	return c
}

// File records one per-file outcome.
func (c *Collector) File(stage, outcome string) {
	if c == nil {
		return
	}
	c.filesTotal.WithLabelValues(stage, outcome).Inc()
}

// Label records one collected file under its unified code.
func (c *Collector) Label(dataset, code string) {
	if c == nil {
		return
	}
	c.labelsTotal.WithLabelValues(dataset, code).Inc()
}

// Table records the shape of one converted table.
func (c *Collector) Table(rows, nanCells int, skipped map[string]int) {
	if c == nil {
		return
	}
	c.rowsTotal.Add(float64(rows))
	c.nanCellsTotal.Add(float64(nanCells))
	for reason, n := range skipped {
		c.skippedLines.WithLabelValues(reason).Add(float64(n))
	}
}

// Observe records how long one file took in stage.
func (c *Collector) Observe(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// MarkRun stamps the completion time of command.
func (c *Collector) MarkRun(command string, at time.Time) {
	if c == nil {
		return
	}
	c.lastRun.WithLabelValues(command).Set(float64(at.Unix()))
}

// WriteTextfile writes the current metrics to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
