package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapstub/internal/cli/output"
	"github.com/leapstack-labs/leapstub/internal/engine"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Jobs    int
	NoCache bool
	Watch   bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [path]...",
		Short: "Check that stub files parse",
		Long: `Parse every *.pyi file under the given paths (default: the current
directory) and report which ones fail.

Files are parsed in parallel. Successful results are cached in the state
database by content hash and target, so unchanged files are skipped on the
next run. The command exits non-zero when any file fails.`,
		Example: `  # Check the current directory
  leapstub check

  # Check for Python 3.6 with 4 workers
  leapstub check --python-version 3.6 --jobs 4 stubs/

  # Re-check on every change
  leapstub check --watch stubs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of files parsed concurrently (default: one per CPU)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Parse every file, ignoring cached results")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when stub files change")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	eng, err := cmdCtx.NewEngine(opts.Jobs, opts.NoCache)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if opts.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		r.Println(r.Muted(fmt.Sprintf("Watching %d path(s) for %s (Ctrl+C to stop)", len(paths), cmdCtx.Cfg.Target())))
		return eng.Watch(ctx, paths, func(report *engine.Report) {
			if err := renderReport(r, report); err != nil {
				cmdCtx.Logger.Warn("failed to render report", "error", err)
			}
		})
	}

	files, err := engine.Discover(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warning("no stub files found")
		return nil
	}

	report, err := eng.Check(cmd.Context(), files)
	if err != nil {
		return err
	}
	if err := renderReport(r, report); err != nil {
		return err
	}

	if report.HasFailures() {
		return fmt.Errorf("%d of %d files failed", report.Failed, len(report.Files))
	}
	return nil
}

func renderReport(r *output.Renderer, report *engine.Report) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(report)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Status", "Decls", "Error"})
	for _, f := range report.Files {
		t.AppendRow(table.Row{f.Path, statusLabel(r, f.Status, mode), f.Declarations, f.Error})
	}

	if mode == output.ModeMarkdown {
		r.Header(2, "Check results")
		t.RenderMarkdown()
		r.Println()
		r.Println(r.FormatKeyValue("Target", report.Target))
		if report.RunID != "" {
			r.Println(r.FormatKeyValue("Run", report.RunID))
		}
		r.Println(r.FormatKeyValue("Summary", report.Summary()))
		return nil
	}

	t.Render()
	r.Println(r.FormatKeyValue("Target", report.Target))
	if report.RunID != "" {
		r.Println(r.FormatKeyValue("Run", r.Muted(report.RunID)))
	}
	if report.HasFailures() {
		r.Error(report.Summary())
	} else {
		r.Success(report.Summary())
	}
	return nil
}

func statusLabel(r *output.Renderer, status engine.FileStatus, mode output.Mode) string {
	if mode != output.ModeText {
		return string(status)
	}
	styles := r.Styles()
	switch status {
	case engine.StatusPassed:
		return styles.Success.Render(string(status))
	case engine.StatusFailed:
		return styles.Error.Render(string(status))
	default:
		return styles.Muted.Render(string(status))
	}
}
