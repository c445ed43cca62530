package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapstub version and the default build target.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapstub v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stub parser for pytype .pyi files (default target %s/%s)\n",
				core.DefaultVersion, core.DefaultPlatform)
		},
	}
}
