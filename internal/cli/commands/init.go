package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapstub/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapstub project",
		Long: `Initialize a new leapstub project.

This creates:
  - leapstub.yaml configuration file with the default target
  - stubs/ directory with an example stub
  - .gitignore excluding the state database`,
		Example: `  # Initialize in current directory
  leapstub init

  # Initialize in a new directory
  leapstub init typeshed-checks

  # Force overwrite existing files
  leapstub init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "leapstub.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("leapstub.yaml already exists. Use --force to overwrite")
	}

	files, err := writeTemplate("project", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	for _, f := range files {
		if f.Kept {
			r.StatusLine(f.Path, "skipped", "exists")
			continue
		}
		r.StatusLine(f.Path, "success", "")
	}

	r.Println("")
	r.Success("leapstub project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add your .pyi stubs to stubs/")
	r.Println("  2. Set python_version and platform in leapstub.yaml")
	r.Println("  3. Run 'leapstub check' to parse every stub")
	r.Println("  4. Run 'leapstub parse stubs/example.pyi' to see the canonical form")

	return nil
}
