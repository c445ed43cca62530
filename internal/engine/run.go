package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/leapstack-labs/leapstub/internal/state"
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
	"golang.org/x/sync/errgroup"
)

// FileStatus is the outcome of checking one file.
type FileStatus string

// File statuses.
const (
	StatusPassed FileStatus = "passed"
	StatusFailed FileStatus = "failed"
	StatusCached FileStatus = "cached"
)

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path         string     `json:"path" yaml:"path"`
	Status       FileStatus `json:"status" yaml:"status"`
	Declarations int        `json:"declarations" yaml:"declarations"`
	Line         int        `json:"line,omitempty" yaml:"line,omitempty"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarizes a check run.
type Report struct {
	RunID    string        `json:"run_id,omitempty"`
	Target   string        `json:"target"`
	Files    []FileResult  `json:"files"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Cached   int           `json:"cached"`
	Duration time.Duration `json:"duration_ns"`
}

// HasFailures returns true if any file failed.
func (r *Report) HasFailures() bool {
	return r.Failed > 0
}

// Summary returns a human-readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d files: %d passed, %d cached, %d failed (%s)",
		len(r.Files), r.Passed, r.Cached, r.Failed, r.Duration.Round(time.Millisecond))
}

// Check parses files concurrently and reports each outcome in input order.
// Parse failures are recorded in the report; the returned error is reserved
// for cancellation and state store failures.
func (e *Engine) Check(ctx context.Context, files []string) (*Report, error) {
	start := time.Now()
	report := &Report{Target: e.target, Files: make([]FileResult, len(files))}

	var run *state.Run
	if e.store != nil {
		var err error
		run, err = e.store.CreateRun(ctx, e.target)
		if err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
		report.RunID = run.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Files[i] = e.checkFile(gctx, path, report.RunID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range report.Files {
		switch f.Status {
		case StatusPassed:
			report.Passed++
		case StatusCached:
			report.Cached++
		case StatusFailed:
			report.Failed++
		}
	}
	report.Duration = time.Since(start)

	if run != nil {
		if err := e.store.CompleteRun(ctx, run.ID, len(files), report.Failed); err != nil {
			return nil, fmt.Errorf("failed to complete run: %w", err)
		}
	}

	e.logger.Debug("check finished",
		"run_id", report.RunID,
		"files", len(files),
		"failed", report.Failed,
		"cached", report.Cached,
		"duration", report.Duration)

	return report, nil
}

func (e *Engine) checkFile(ctx context.Context, path, runID string) FileResult {
	result := FileResult{Path: path}

	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Discover or the command line
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	hash := computeHash(content)

	useCache := e.store != nil && !e.noCache
	if useCache {
		cached, err := e.store.GetResult(ctx, path, hash, e.target)
		if err != nil {
			e.logger.Warn("cache lookup failed", "path", path, "error", err)
		} else if cached != nil {
			result.Status = StatusCached
			result.Declarations = cached.Declarations
			return result
		}
	}

	m, err := pyi.Parse(string(content), e.parse)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		var perr *core.Error
		if errors.As(err, &perr) {
			result.Line = perr.Line
		}
		e.logger.Debug("parse failed", "path", path, "error", err)
		return result
	}

	result.Status = StatusPassed
	result.Declarations = len(m.Decls())

	if e.store != nil {
		if err := e.store.SaveResult(ctx, &state.Result{
			Path:         path,
			ContentHash:  hash,
			Target:       e.target,
			RunID:        runID,
			Declarations: result.Declarations,
		}); err != nil {
			e.logger.Warn("failed to cache result", "path", path, "error", err)
		}
	}

	return result
}
