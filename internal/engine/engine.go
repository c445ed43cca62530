// Package engine checks stub files against a build target.
// It handles discovery, parallel parsing and the result cache.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/leapstack-labs/leapstub/internal/state"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
)

// Engine parses stub files and records check runs.
type Engine struct {
	logger  *slog.Logger
	store   state.Store
	parse   pyi.Config
	target  string
	jobs    int
	noCache bool
}

// Config holds engine configuration.
type Config struct {
	// Parse is the build target handed to every parse.
	Parse pyi.Config
	// Target names Parse for the cache, e.g. "2.7.6/linux".
	Target string
	// StatePath is the path to the SQLite state database.
	// Empty disables run tracking and caching.
	StatePath string
	// Jobs bounds concurrent parses (0 means one per CPU).
	Jobs int
	// NoCache forces every file to be parsed.
	NoCache bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine, opening and migrating the state store when
// StatePath is set.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var store state.Store
	if cfg.StatePath != "" {
		if err := ensureDir(cfg.StatePath); err != nil {
			return nil, err
		}

		s := state.NewSQLiteStore(logger)
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		store = s
	}

	return NewWithStore(cfg, store), nil
}

// NewWithStore creates an engine over an already opened store, which may be
// nil.
func NewWithStore(cfg Config, store state.Store) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Parse.Logger == nil {
		cfg.Parse.Logger = logger
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	logger.Debug("initializing engine", "target", cfg.Target, "jobs", jobs, "cache", store != nil && !cfg.NoCache)

	return &Engine{
		logger:  logger,
		store:   store,
		parse:   cfg.Parse,
		target:  cfg.Target,
		jobs:    jobs,
		noCache: cfg.NoCache,
	}
}

func ensureDir(statePath string) error {
	if statePath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(statePath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// Store returns the state store, or nil when tracking is disabled.
func (e *Engine) Store() state.Store {
	return e.store
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
