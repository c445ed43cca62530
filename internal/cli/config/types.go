// Package config provides configuration management for the leapstub CLI.
//
// Values are layered from defaults, a leapstub.yaml file, LEAPSTUB_*
// environment variables and explicitly set flags, in increasing priority.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
)

// Default configuration values.
const (
	DefaultStateFile = ".leapstub/state.db"
	DefaultOutput    = "auto"
	DefaultJobs      = 0
)

// Config holds all CLI configuration options.
type Config struct {
	PythonVersion core.Version `koanf:"python_version"`
	Platform      string       `koanf:"platform"`
	StatePath     string       `koanf:"state_path"`
	OutputFormat  string       `koanf:"output"`
	Verbose       bool         `koanf:"verbose"`
	// Jobs bounds parallel checking; 0 means one worker per CPU.
	Jobs int `koanf:"jobs"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// ParseConfig returns the build target for this configuration.
func (c *Config) ParseConfig(logger *slog.Logger) pyi.Config {
	return pyi.Config{
		Version:  c.PythonVersion,
		Platform: c.Platform,
		Logger:   logger,
	}
}

// Target identifies the version and platform pair, e.g. "2.7.6/linux".
// Cached check results are keyed by it.
func (c *Config) Target() string {
	version := c.PythonVersion
	if len(version) == 0 {
		version = core.DefaultVersion
	}
	platform := c.Platform
	if platform == "" {
		platform = core.DefaultPlatform
	}
	return version.String() + "/" + platform
}
