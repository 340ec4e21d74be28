package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"emocorpus/internal/dataset"
	"emocorpus/internal/fileutil"
	"emocorpus/internal/journal"
	"emocorpus/internal/label"
	"emocorpus/internal/logging"
	"emocorpus/internal/services"
)

func (r *Runner) collect(ctx context.Context, runID string) (Summary, error) {
	start := time.Now()
	tl := newTally(runID, journal.StageCollect)
	logger := logging.WithContext(services.WithStage(ctx, string(journal.StageCollect)), r.logger)

	tasks := r.planCollect(ctx, logger, tl)
	tl.update(func(s *Summary) { s.Total = len(tasks) + len(s.Failures) })

	err := r.process(ctx, journal.StageCollect, tasks, tl, r.copyToPool)
	summary := tl.result(time.Since(start))
	logger.Info("collect finished",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("unknown", summary.Unknown),
	)
	return summary, err
}

// planCollect discovers every configured dataset and maps each file to its
// pool name. Unreadable roots and pool name collisions become failures.
func (r *Runner) planCollect(ctx context.Context, logger *slog.Logger, tl *tally) []task {
	var tasks []task
	owners := make(map[string]string)
	for _, kind := range r.datasets {
		root := r.cfg.DatasetRoot(kind)
		dsLogger := logger.With(logging.String(logging.FieldDataset, string(kind)))
		if root == "" {
			dsLogger.Debug("dataset not configured")
			continue
		}
		paths, err := dataset.Discover(kind, root)
		if err != nil {
			wrapped := services.Wrap(services.ErrNotFound, "collect", string(kind), "discover "+root, err)
			logging.WarnWithContext(dsLogger, "dataset root unreadable", "dataset_unreadable",
				logging.Error(wrapped),
				logging.String(logging.FieldErrorHint, "check datasets."+dataset.ConfigKey(kind)),
				logging.String(logging.FieldImpact, "dataset skipped"),
			)
			tl.update(func(s *Summary) {
				s.Failed++
				s.Failures = append(s.Failures, Failure{Path: root, Kind: services.Kind(wrapped), Message: wrapped.Error()})
			})
			continue
		}
		dsLogger.Info("dataset discovered", logging.String("root", root), logging.Int("files", len(paths)))

		for _, path := range paths {
			rec := dataset.NewRecord(kind, path)
			code := string(rec.Label.Code)
			output := filepath.Join(r.cfg.Paths.PoolDir, rec.OutputFilename())
			if owner, taken := owners[output]; taken {
				err := services.Wrap(services.ErrValidation, "collect", path, fmt.Sprintf("pool name %s already used by %s", filepath.Base(output), owner), nil)
				logging.WarnWithContext(dsLogger, "pool name collision", "pool_collision",
					logging.Error(err),
					logging.String(logging.FieldFile, path),
					logging.String("owner", owner),
					logging.String(logging.FieldImpact, "file not copied"),
				)
				tl.update(func(s *Summary) {
					s.Failed++
					s.Failures = append(s.Failures, Failure{Path: path, Kind: services.Kind(err), Message: err.Error()})
				})
				continue
			}
			owners[output] = path

			// Only files that will be copied count toward the distribution.
			tl.update(func(s *Summary) {
				if s.Labels == nil {
					s.Labels = make(map[string]int)
				}
				s.Labels[code]++
				if rec.Label.Code == label.Unknown {
					s.Unknown++
				}
			})
			if rec.Label.Code == label.Unknown {
				dsLogger.Debug("unknown emotion label",
					logging.String(logging.FieldFile, path),
					logging.String("raw_emotion", rec.RawEmotion),
				)
			}
			tasks = append(tasks, task{
				source:    path,
				output:    output,
				dataset:   string(kind),
				labelCode: code,
				arousal:   rec.Label.Arousal,
			})
		}
	}
	return tasks
}

func (r *Runner) copyToPool(_ context.Context, _ *slog.Logger, t task) (result, error) {
	opts := fileutil.CopyOptions{Verify: r.cfg.Workflow.VerifyCopies}
	if err := fileutil.CopyAtomic(t.source, t.output, opts); err != nil {
		return result{}, services.Wrap(services.ErrTransient, "collect", t.source, "copy to pool", err)
	}
	r.metrics.Label(t.dataset, t.labelCode)
	return result{}, nil
}
