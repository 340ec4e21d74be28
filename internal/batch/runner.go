package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"emocorpus/internal/config"
	"emocorpus/internal/dataset"
	"emocorpus/internal/deps"
	"emocorpus/internal/journal"
	"emocorpus/internal/logging"
	"emocorpus/internal/metrics"
	"emocorpus/internal/services"
	"emocorpus/internal/smile"
)

// ErrLocked reports that another batch holds the lock.
var ErrLocked = errors.New("another emocorpus batch is already running")

// Extractor produces a feature export for one audio file.
type Extractor interface {
	Check() error
	Extract(ctx context.Context, input, output string) (smile.Result, error)
}

// Runner executes pipeline stages against the configured directories.
type Runner struct {
	cfg       *config.Config
	store     *journal.Store
	metrics   *metrics.Collector
	logger    *slog.Logger
	extractor Extractor
	datasets  []dataset.Kind
	resume    bool
	now       func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithExtractor replaces the SMILExtract runner built from config.
func WithExtractor(e Extractor) Option {
	return func(r *Runner) { r.extractor = e }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithDatasets restricts collect to the given kinds.
func WithDatasets(kinds ...dataset.Kind) Option {
	return func(r *Runner) {
		if len(kinds) > 0 {
			r.datasets = kinds
		}
	}
}

// WithResume overrides workflow.resume.
func WithResume(resume bool) Option {
	return func(r *Runner) { r.resume = resume }
}

// New builds a Runner. The journal store is required.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("batch runner requires config and journal store")
	}
	r := &Runner{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "batch"),
		datasets: dataset.Kinds(),
		resume:   cfg.Workflow.Resume,
		now:      time.Now,
		extractor: smile.NewRunner(smile.Options{
			Binary:     deps.ResolveExtractor(cfg.Extractor.Binary, cfg.Extractor.OpenSMILEDir),
			ConfigPath: cfg.ExtractorConfigPath(),
			Separator:  cfg.Extractor.CSVSeparator,
			Timeout:    cfg.ExtractorTimeout(),
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Collect copies every dataset file into the pool.
func (r *Runner) Collect(ctx context.Context) (Summary, error) {
	summaries, err := r.execute(ctx, "collect", journal.StageCollect)
	return first(summaries), err
}

// Extract runs the feature extractor on every pool file.
func (r *Runner) Extract(ctx context.Context) (Summary, error) {
	summaries, err := r.execute(ctx, "extract", journal.StageExtract)
	return first(summaries), err
}

// Convert turns every feature export into a numeric table.
func (r *Runner) Convert(ctx context.Context) (Summary, error) {
	summaries, err := r.execute(ctx, "convert", journal.StageConvert)
	return first(summaries), err
}

// All runs collect, extract, and convert under one lock and run id.
// It stops before the next stage when a stage returns an error.
func (r *Runner) All(ctx context.Context) ([]Summary, error) {
	return r.execute(ctx, "run", journal.Stages()...)
}

func first(summaries []Summary) Summary {
	if len(summaries) == 0 {
		return Summary{}
	}
	return summaries[0]
}

func (r *Runner) execute(ctx context.Context, command string, stages ...journal.Stage) ([]Summary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, command, "prepare", "create directories", err)
	}

	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	if err := r.store.StartRun(ctx, runID, command); err != nil {
		return nil, err
	}
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("command", command),
		logging.Int("workers", r.workers()),
		logging.Bool("resume", r.resume),
	)

	var (
		summaries []Summary
		runErr    error
	)
	for _, stage := range stages {
		summary, err := r.runStage(ctx, runID, stage)
		summaries = append(summaries, summary)
		if err != nil {
			runErr = err
			break
		}
	}

	var succeeded, failed, skipped int
	for _, s := range summaries {
		succeeded += s.Succeeded
		failed += s.Failed
		skipped += s.Skipped
	}
	// The run row is finished even after cancellation.
	if err := r.store.FinishRun(context.WithoutCancel(ctx), runID, succeeded, failed, skipped); err != nil {
		logger.Warn("failed to finish run record", logging.Error(err))
	}
	r.metrics.MarkRun(command, r.now())
	if r.cfg.Export.Metrics && r.metrics != nil {
		if err := r.metrics.WriteTextfile(r.cfg.MetricsPath()); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "metrics for this run are unavailable"),
			)
		}
	}

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("command", command),
		logging.Int("succeeded", succeeded),
		logging.Int("failed", failed),
		logging.Int("skipped", skipped),
	)
	return summaries, runErr
}

func (r *Runner) runStage(ctx context.Context, runID string, stage journal.Stage) (Summary, error) {
	switch stage {
	case journal.StageCollect:
		return r.collect(ctx, runID)
	case journal.StageExtract:
		return r.extract(ctx, runID)
	case journal.StageConvert:
		return r.convert(ctx, runID)
	default:
		return Summary{}, fmt.Errorf("unknown stage %q", stage)
	}
}

func (r *Runner) workers() int {
	if r.cfg.Workflow.Workers < 1 {
		return 1
	}
	return r.cfg.Workflow.Workers
}
