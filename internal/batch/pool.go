package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"emocorpus/internal/fileutil"
	"emocorpus/internal/journal"
	"emocorpus/internal/logging"
	"emocorpus/internal/metrics"
	"emocorpus/internal/services"
)

// task is one file of work within a stage.
type task struct {
	source    string
	output    string
	dataset   string
	labelCode string
	arousal   int
}

// result carries the table shape reported by convert.
type result struct {
	rows     int
	nanCells int
	skipped  map[string]int
}

type processFunc func(ctx context.Context, logger *slog.Logger, t task) (result, error)

// process runs fn over tasks with bounded concurrency. Per-file errors are
// recorded, never returned; the returned error is the context's.
func (r *Runner) process(ctx context.Context, stage journal.Stage, tasks []task, tl *tally, fn processFunc) error {
	stageCtx := services.WithStage(ctx, string(stage))

	g := new(errgroup.Group)
	g.SetLimit(r.workers())

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.processOne(stageCtx, stage, t, tl, fn)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (r *Runner) processOne(ctx context.Context, stage journal.Stage, t task, tl *tally, fn processFunc) {
	if ctx.Err() != nil {
		return
	}
	fileCtx := services.WithFile(ctx, t.source)
	if t.dataset != "" {
		fileCtx = services.WithDataset(fileCtx, t.dataset)
	}
	logger := logging.WithContext(fileCtx, r.logger)

	if r.resume {
		done, err := r.store.Done(fileCtx, stage, t.source, t.output, fileutil.IsRegular)
		if err != nil {
			logger.Warn("journal lookup failed", logging.Error(err))
		}
		if done {
			logger.Debug("already processed", logging.String("output", t.output))
			r.metrics.File(string(stage), metrics.OutcomeSkipped)
			tl.update(func(s *Summary) { s.Skipped++ })
			return
		}
	}

	start := time.Now()
	res, err := fn(fileCtx, logger, t)
	elapsed := time.Since(start)
	if err != nil && ctx.Err() != nil {
		logger.Debug("file interrupted", logging.Error(err))
		return
	}
	r.metrics.Observe(string(stage), elapsed)

	runID, _ := services.RunIDFromContext(fileCtx)
	job := journal.Job{
		Stage:      stage,
		SourcePath: t.source,
		OutputPath: t.output,
		Dataset:    t.dataset,
		LabelCode:  t.labelCode,
		Arousal:    t.arousal,
		Status:     journal.StatusDone,
		Rows:       res.rows,
		NaNCells:   res.nanCells,
		RunID:      runID,
	}
	for _, n := range res.skipped {
		job.Skipped += n
	}

	if err != nil {
		kind := services.Kind(err)
		job.Status = journal.StatusFailed
		job.ErrorKind = kind
		job.ErrorMessage = err.Error()
		logging.ErrorWithContext(logger, "file failed", string(stage)+"_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(stage, kind)),
		)
		r.metrics.File(string(stage), metrics.OutcomeFailed)
		tl.update(func(s *Summary) {
			s.Failed++
			s.Failures = append(s.Failures, Failure{Path: t.source, Kind: kind, Message: err.Error()})
		})
	} else {
		logger.Debug("file done",
			logging.String("output", t.output),
			logging.Duration("elapsed", elapsed),
		)
		r.metrics.File(string(stage), metrics.OutcomeDone)
		r.metrics.Table(res.rows, res.nanCells, res.skipped)
		tl.update(func(s *Summary) {
			s.Succeeded++
			s.Rows += res.rows
			s.NaNCells += res.nanCells
			s.Dropped += job.Skipped
		})
	}

	if recErr := r.store.Record(context.WithoutCancel(fileCtx), job); recErr != nil {
		logging.WarnWithContext(logger, "journal write failed", "journal_write_failed",
			logging.Error(recErr),
			logging.String(logging.FieldImpact, "file will be reprocessed on resume"),
		)
	}
}

func hintFor(stage journal.Stage, kind string) string {
	switch kind {
	case services.KindExternalTool:
		return "inspect SMILExtract stderr in the error message"
	case services.KindTimeout:
		return "raise extractor.timeout_seconds or check the audio file"
	case services.KindValidation:
		if stage == journal.StageConvert {
			return "export has no @data section; re-run extract for this file"
		}
		return "check the file name and contents"
	case services.KindConfiguration:
		return "run emocorpus preflight"
	default:
		return "check file permissions and free disk space"
	}
}
