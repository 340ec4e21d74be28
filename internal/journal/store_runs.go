package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartRun records the beginning of a batch invocation.
func (s *Store) StartRun(ctx context.Context, id, command string) error {
	_, err := s.exec(ctx,
		"INSERT INTO runs (id, command, started_at) VALUES (?, ?, ?)",
		id, command, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts of a batch invocation.
func (s *Store) FinishRun(ctx context.Context, id string, succeeded, failed, skipped int) error {
	res, err := s.exec(ctx,
		"UPDATE runs SET finished_at = ?, succeeded = ?, failed = ?, skipped = ? WHERE id = ?",
		formatTime(time.Now()), succeeded, failed, skipped, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when none exist.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	var (
		run        Run
		startedRaw sql.NullString
		finished   sql.NullString
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT id, command, started_at, finished_at, succeeded, failed, skipped FROM runs ORDER BY started_at DESC LIMIT 1",
	).Scan(&run.ID, &run.Command, &startedRaw, &finished, &run.Succeeded, &run.Failed, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finished)
	return &run, nil
}
