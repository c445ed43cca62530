package commands

import (
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapstub/internal/cli/config"
	"github.com/leapstack-labs/leapstub/internal/cli/output"
	"github.com/leapstack-labs/leapstub/internal/engine"
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewEngine creates a check engine for the context's target.
// The caller must Close it.
func (c *CommandContext) NewEngine(jobs int, noCache bool) (*engine.Engine, error) {
	if jobs <= 0 {
		jobs = c.Cfg.Jobs
	}
	return engine.New(engine.Config{
		Parse:     c.Cfg.ParseConfig(c.Logger),
		Target:    c.Cfg.Target(),
		StatePath: c.Cfg.StatePath,
		Jobs:      jobs,
		NoCache:   noCache,
		Logger:    c.Logger,
	})
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	version := core.DefaultVersion
	if v, err := core.ParseVersion(os.Getenv("LEAPSTUB_PYTHON_VERSION")); err == nil {
		version = v
	}

	return &config.Config{
		PythonVersion: version,
		Platform:      getEnvOrDefault("LEAPSTUB_PLATFORM", core.DefaultPlatform),
		StatePath:     getEnvOrDefault("LEAPSTUB_STATE_PATH", config.DefaultStateFile),
		OutputFormat:  getEnvOrDefault("LEAPSTUB_OUTPUT", config.DefaultOutput),
		Verbose:       os.Getenv("LEAPSTUB_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
