// Package state persists check runs and a cache of successful stub checks in
// SQLite, so unchanged files are not re-parsed for the same target.
package state

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a check run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of `check` over a set of files.
type Run struct {
	ID          string
	Target      string
	Status      RunStatus
	Files       int
	Failures    int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Result is the cached outcome of checking one file for one target.
type Result struct {
	Path         string
	ContentHash  string
	Target       string
	RunID        string
	Declarations int
	CheckedAt    time.Time
}

// Store is the persistence interface used by the check command.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun(ctx context.Context, target string) (*Run, error)
	CompleteRun(ctx context.Context, id string, files, failures int) error
	GetRun(ctx context.Context, id string) (*Run, error)
	RecentRuns(ctx context.Context, limit int) ([]*Run, error)

	GetResult(ctx context.Context, path, hash, target string) (*Result, error)
	SaveResult(ctx context.Context, r *Result) error
	DeleteResults(ctx context.Context, path string) error
}
