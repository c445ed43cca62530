package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// GetResult returns the cached result for path when it was checked with the
// same content hash and target, or nil when there is none.
func (s *SQLiteStore) GetResult(ctx context.Context, path, hash, target string) (*Result, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	r := &Result{}
	var runID sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT path, content_hash, target, run_id, declarations, checked_at
		 FROM check_results WHERE path = ? AND target = ? AND content_hash = ?`,
		path, target, hash,
	).Scan(&r.Path, &r.ContentHash, &r.Target, &runID, &r.Declarations, &r.CheckedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if runID.Valid {
		r.RunID = runID.String
	}
	return r, nil
}

// SaveResult stores r, replacing any earlier result for the same path and
// target.
func (s *SQLiteStore) SaveResult(ctx context.Context, r *Result) error {
	if s.db == nil {
		return errNotOpened
	}

	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	var runID *string
	if r.RunID != "" {
		runID = &r.RunID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_results (path, content_hash, target, run_id, declarations, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (path, target) DO UPDATE SET
		     content_hash = excluded.content_hash,
		     run_id = excluded.run_id,
		     declarations = excluded.declarations,
		     checked_at = excluded.checked_at`,
		r.Path, r.ContentHash, r.Target, runID, r.Declarations, r.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	s.logger.Debug("cached result", slog.String("path", r.Path), slog.String("target", r.Target))
	return nil
}

// DeleteResults removes every cached result for path.
func (s *SQLiteStore) DeleteResults(ctx context.Context, path string) error {
	if s.db == nil {
		return errNotOpened
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM check_results WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	return nil
}
