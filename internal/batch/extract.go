package batch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"emocorpus/internal/fileutil"
	"emocorpus/internal/journal"
	"emocorpus/internal/logging"
	"emocorpus/internal/services"
	"emocorpus/internal/smile"
)

func (r *Runner) extract(ctx context.Context, runID string) (Summary, error) {
	start := time.Now()
	tl := newTally(runID, journal.StageExtract)
	logger := logging.WithContext(services.WithStage(ctx, string(journal.StageExtract)), r.logger)

	if err := r.extractor.Check(); err != nil {
		return tl.result(time.Since(start)), err
	}

	inputs, err := fileutil.ListByExt(r.cfg.Paths.PoolDir, ".wav")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return tl.result(time.Since(start)), services.Wrap(services.ErrTransient, "extract", "list", r.cfg.Paths.PoolDir, err)
	}
	tasks := make([]task, 0, len(inputs))
	for _, input := range inputs {
		tasks = append(tasks, task{
			source: input,
			output: filepath.Join(r.cfg.Paths.FeaturesDir, smile.ExportFilename(input)),
		})
	}
	tl.update(func(s *Summary) { s.Total = len(tasks) })

	err = r.process(ctx, journal.StageExtract, tasks, tl, r.extractOne)
	summary := tl.result(time.Since(start))
	logger.Info("extract finished",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, err
}

func (r *Runner) extractOne(ctx context.Context, logger *slog.Logger, t task) (result, error) {
	res, err := r.extractor.Extract(ctx, t.source, t.output)
	if err != nil {
		return result{}, err
	}
	logger.Debug("features extracted", logging.Duration("extractor_time", res.Duration))
	return result{}, nil
}
