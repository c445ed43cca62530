package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapstub/internal/cli/config"
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/format"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "leapstub> "
	replContinuePrompt = "     ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse stub snippets interactively",
		Long: `Start an interactive session. Type stub source line by line; an empty
line parses the buffered snippet and prints its canonical form.

Commands (on an empty buffer):
  .target [VERSION [PLATFORM]]  Show or change the target
  .help                         Show help
  .quit / .exit                 Exit`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)

	rlCfg := &readline.Config{
		Prompt:          replPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	}
	if statePath := cmdCtx.Cfg.StatePath; statePath != "" && statePath != ":memory:" {
		rlCfg.HistoryFile = filepath.Join(filepath.Dir(statePath), "repl_history")
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newREPLSession(cmdCtx.Cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	session.parse.Logger = cmdCtx.Logger

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapstub REPL (target: %s)\n", cmdCtx.Cfg.Target())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Enter a stub, then an empty line to parse it. Type .help for commands.")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := session.handleLine(line); quit {
			break
		}
		if session.pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}

	return nil
}

// replSession holds the buffered snippet, the current target and the last
// module parsed successfully.
type replSession struct {
	parse  pyi.Config
	buf    strings.Builder
	last   *core.Module
	out    io.Writer
	errOut io.Writer
}

func newREPLSession(cfg *config.Config, out, errOut io.Writer) *replSession {
	return &replSession{
		parse:  cfg.ParseConfig(nil),
		out:    out,
		errOut: errOut,
	}
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) reset() { s.buf.Reset() }

// handleLine consumes one input line and reports whether the session ends.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		if s.pending() {
			s.submit()
		}
		return false
	}

	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.dotCommand(trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	return false
}

func (s *replSession) submit() {
	src := s.buf.String()
	s.buf.Reset()

	m, err := pyi.Parse(src, s.parse)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	s.last = m
	if text := format.Format(m); text != "" {
		_, _ = fmt.Fprintln(s.out, text)
	}
	_, _ = fmt.Fprintln(s.out)
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".target":
		if len(parts) > 1 {
			version, err := core.ParseVersion(parts[1])
			if err != nil {
				_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
				return false
			}
			s.parse.Version = version
		}
		if len(parts) > 2 {
			s.parse.Platform = parts[2]
		}
		_, _ = fmt.Fprintf(s.out, "target: %s/%s\n", s.parse.Version, s.parse.Platform)

	case ".show":
		s.show(parts[1:])

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

// show prints the declarations of the last parsed module with the given
// names, overloads included.
func (s *replSession) show(names []string) {
	if len(names) == 0 {
		_, _ = fmt.Fprintln(s.errOut, "Usage: .show NAME...")
		return
	}
	if s.last == nil {
		_, _ = fmt.Fprintln(s.errOut, "Nothing parsed yet")
		return
	}
	for _, name := range names {
		decls := s.last.Lookup(name)
		if len(decls) == 0 {
			_, _ = fmt.Fprintf(s.errOut, "No declaration named %s\n", name)
			continue
		}
		for _, d := range decls {
			_, _ = fmt.Fprintln(s.out, format.FormatDecl(d))
		}
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .target [VERSION [PLATFORM]]  Show or change the target (e.g. .target 3.6 win32)
  .show NAME...                 Print declarations of the last parsed stub
  .help                         Show this help message
  .quit / .exit                 Exit the REPL

Tips:
  - An empty line parses the buffered stub
  - Ctrl+C discards the buffer
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}
