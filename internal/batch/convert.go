package batch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"emocorpus/internal/arff"
	"emocorpus/internal/fileutil"
	"emocorpus/internal/journal"
	"emocorpus/internal/logging"
	"emocorpus/internal/services"
	"emocorpus/internal/smile"
)

func (r *Runner) convert(ctx context.Context, runID string) (Summary, error) {
	start := time.Now()
	tl := newTally(runID, journal.StageConvert)
	logger := logging.WithContext(services.WithStage(ctx, string(journal.StageConvert)), r.logger)

	exports, err := fileutil.ListByExt(r.cfg.Paths.FeaturesDir, ".csv")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return tl.result(time.Since(start)), services.Wrap(services.ErrTransient, "convert", "list", r.cfg.Paths.FeaturesDir, err)
	}
	tasks := make([]task, 0, len(exports))
	for _, export := range exports {
		tasks = append(tasks, task{
			source: export,
			output: filepath.Join(r.cfg.Paths.TablesDir, smile.TableFilename(filepath.Base(export))),
		})
	}
	tl.update(func(s *Summary) { s.Total = len(tasks) })

	err = r.process(ctx, journal.StageConvert, tasks, tl, r.convertOne)
	summary := tl.result(time.Since(start))
	logger.Info("convert finished",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("rows", summary.Rows),
		logging.Int("nan_cells", summary.NaNCells),
	)
	return summary, err
}

func (r *Runner) convertOne(_ context.Context, logger *slog.Logger, t task) (result, error) {
	table, err := arff.ConvertFile(t.source, t.output)
	if err != nil {
		if errors.Is(err, arff.ErrMissingDataSection) {
			return result{}, services.Wrap(services.ErrValidation, "convert", t.source, "", err)
		}
		return result{}, services.Wrap(services.ErrTransient, "convert", t.source, "", err)
	}

	res := result{
		rows:     len(table.Rows),
		nanCells: table.NaNCount(),
	}
	if len(table.Skipped) > 0 {
		res.skipped = make(map[string]int)
		for _, line := range table.Skipped {
			res.skipped[string(line.Reason)]++
		}
		logging.WarnWithContext(logger, "malformed data rows skipped", "rows_skipped",
			logging.Int("skipped_rows", len(table.Skipped)),
			logging.Int("first_line", table.Skipped[0].Line),
			logging.String(logging.FieldErrorHint, "inspect the export for truncated lines"),
			logging.String(logging.FieldImpact, "table has fewer rows than the export"),
		)
	}

	if r.cfg.Export.XLSX {
		xlsxPath := strings.TrimSuffix(t.output, filepath.Ext(t.output)) + ".xlsx"
		if err := arff.WriteXLSX(xlsxPath, table); err != nil {
			return res, services.Wrap(services.ErrTransient, "convert", t.source, "write xlsx", err)
		}
	}
	return res, nil
}
