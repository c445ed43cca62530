// Package pyi builds the canonical module AST from stub source.
//
// Building runs in fixed stages over one raw tree:
//
//  1. conditional blocks are resolved against the target version and
//     platform, leaving only the live statements;
//  2. from-imports and class names of the live statements are collected for
//     name resolution;
//  3. declarations are converted in source order, normalizing every type
//     expression and synthesizing NamedTuple classes;
//  4. module-wide checks run (property decorators, duplicate names) and the
//     required imports are computed.
//
// All state lives in one builder per call, so independent sources can be
// parsed concurrently.
package pyi

import (
	"log/slog"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/parser"
)

// Config holds the build target.
type Config struct {
	// Version is the interpreter version conditions compare against.
	// Defaults to core.DefaultVersion.
	Version core.Version
	// Platform is the value of sys.platform. Defaults to core.DefaultPlatform.
	Platform string
	// Logger receives debug records about pruned branches and synthesized
	// classes (optional, uses discard if nil)
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if len(c.Version) == 0 {
		c.Version = core.DefaultVersion
	}
	if c.Platform == "" {
		c.Platform = core.DefaultPlatform
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Parse parses src and builds its module AST.
func Parse(src string, cfg Config) (*core.Module, error) {
	file, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return Build(file, cfg)
}

// Build converts a raw tree into a module AST.
func Build(file *parser.File, cfg Config) (*core.Module, error) {
	return newBuilder(cfg.withDefaults()).build(file)
}
