package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const jobColumns = "id, stage, source_path, output_path, dataset, label_code, arousal, status, error_kind, error_message, rows, skipped, nan_cells, run_id, attempts, created_at, updated_at"

// Record inserts or replaces the outcome for (job.Stage, job.SourcePath).
// Attempts increase on every record of the same key.
func (s *Store) Record(ctx context.Context, job Job) error {
	if job.Stage == "" || job.SourcePath == "" {
		return errors.New("journal record: stage and source path are required")
	}
	if job.Status == "" {
		return errors.New("journal record: status is required")
	}
	now := formatTime(time.Now())
	_, err := s.exec(ctx,
		`INSERT INTO jobs (
            stage, source_path, output_path, dataset, label_code, arousal, status,
            error_kind, error_message, rows, skipped, nan_cells, run_id, attempts,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT (stage, source_path) DO UPDATE SET
            output_path = excluded.output_path,
            dataset = excluded.dataset,
            label_code = excluded.label_code,
            arousal = excluded.arousal,
            status = excluded.status,
            error_kind = excluded.error_kind,
            error_message = excluded.error_message,
            rows = excluded.rows,
            skipped = excluded.skipped,
            nan_cells = excluded.nan_cells,
            run_id = excluded.run_id,
            attempts = jobs.attempts + 1,
            updated_at = excluded.updated_at`,
		string(job.Stage),
		job.SourcePath,
		nullableString(job.OutputPath),
		nullableString(job.Dataset),
		nullableString(job.LabelCode),
		job.Arousal,
		string(job.Status),
		nullableString(job.ErrorKind),
		nullableString(job.ErrorMessage),
		job.Rows,
		job.Skipped,
		job.NaNCells,
		nullableString(job.RunID),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("record %s job %s: %w", job.Stage, job.SourcePath, err)
	}
	return nil
}

// Get returns the job for (stage, sourcePath), or nil when absent.
func (s *Store) Get(ctx context.Context, stage Stage, sourcePath string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+jobColumns+" FROM jobs WHERE stage = ? AND source_path = ?",
		string(stage), sourcePath,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Done reports whether (stage, sourcePath) completed successfully into
// outputPath and that output still exists according to exists. A job
// journaled with a different output (the target directory moved) is not
// done. An empty outputPath or nil exists skips that check.
func (s *Store) Done(ctx context.Context, stage Stage, sourcePath, outputPath string, exists func(string) bool) (bool, error) {
	job, err := s.Get(ctx, stage, sourcePath)
	if err != nil || job == nil {
		return false, err
	}
	if job.Status != StatusDone {
		return false, nil
	}
	if outputPath != "" && filepath.Clean(job.OutputPath) != filepath.Clean(outputPath) {
		return false, nil
	}
	if exists != nil && job.OutputPath != "" && !exists(job.OutputPath) {
		return false, nil
	}
	return true, nil
}

// Failures returns failed jobs for stage (all stages when empty), most recent first.
func (s *Store) Failures(ctx context.Context, stage Stage, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + jobColumns + " FROM jobs WHERE status = ?"
	args := []any{string(StatusFailed)}
	if stage != "" {
		query += " AND stage = ?"
		args = append(args, string(stage))
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// StageCounts returns job counts grouped by stage and status.
func (s *Store) StageCounts(ctx context.Context) ([]StageCount, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT stage, status, COUNT(1) FROM jobs GROUP BY stage, status ORDER BY stage, status")
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	var counts []StageCount
	for rows.Next() {
		var stage, status string
		var count int
		if err := rows.Scan(&stage, &status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, StageCount{Stage: Stage(stage), Status: Status(status), Count: count})
	}
	return counts, rows.Err()
}

// LabelCounts returns successfully collected files grouped by dataset and label.
func (s *Store) LabelCounts(ctx context.Context) ([]LabelCount, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT COALESCE(dataset, ''), COALESCE(label_code, ''), COALESCE(arousal, 0), COUNT(1)
         FROM jobs WHERE stage = ? AND status = ?
         GROUP BY dataset, label_code, arousal ORDER BY dataset, label_code`,
		string(StageCollect), string(StatusDone))
	if err != nil {
		return nil, fmt.Errorf("count labels: %w", err)
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Dataset, &c.LabelCode, &c.Arousal, &c.Count); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Reset removes journaled jobs for stage (all stages when empty).
func (s *Store) Reset(ctx context.Context, stage Stage) (int64, error) {
	query := "DELETE FROM jobs"
	var args []any
	if stage != "" {
		query += " WHERE stage = ?"
		args = append(args, string(stage))
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset journal: %w", err)
	}
	return res.RowsAffected()
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job          Job
		stage        string
		status       string
		outputPath   sql.NullString
		datasetName  sql.NullString
		labelCode    sql.NullString
		arousal      sql.NullInt64
		errorKind    sql.NullString
		errorMessage sql.NullString
		runID        sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&job.ID,
		&stage,
		&job.SourcePath,
		&outputPath,
		&datasetName,
		&labelCode,
		&arousal,
		&status,
		&errorKind,
		&errorMessage,
		&job.Rows,
		&job.Skipped,
		&job.NaNCells,
		&runID,
		&job.Attempts,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Stage = Stage(stage)
	job.Status = Status(status)
	job.OutputPath = outputPath.String
	job.Dataset = datasetName.String
	job.LabelCode = labelCode.String
	job.Arousal = int(arousal.Int64)
	job.ErrorKind = errorKind.String
	job.ErrorMessage = errorMessage.String
	job.RunID = runID.String
	job.CreatedAt = parseTime(createdRaw)
	job.UpdatedAt = parseTime(updatedRaw)
	return &job, nil
}
