package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/format"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format string
}

// parsedFile pairs a dump with its source when several files are parsed.
type parsedFile struct {
	Path   string             `json:"path" yaml:"path"`
	Module *format.ModuleDump `json:"module" yaml:"module"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse stub files and print their canonical form",
		Long: `Parse one or more stub files for the configured Python version and
platform, then print the canonical stub text or a dump of the module AST.

Conditional blocks are resolved, type expressions normalized and NamedTuple
literals turned into classes. Use "-" to read from standard input.`,
		Example: `  # Print the canonical form
  leapstub parse builtins.pyi

  # Resolve conditions for another target
  leapstub parse --python-version 3.6 --platform win32 os.pyi

  # Dump the AST
  leapstub parse --format yaml collections.pyi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format (text|yaml|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runParse(cmd *cobra.Command, paths []string, opts *ParseOptions) error {
	switch opts.Format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown format %q (valid: text, yaml, json)", opts.Format)
	}

	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	parseCfg := cmdCtx.Cfg.ParseConfig(cmdCtx.Logger)

	var files []parsedFile
	for _, path := range paths {
		m, err := parsePath(cmd, path, parseCfg)
		if err != nil {
			return err
		}

		if opts.Format == "text" {
			if len(paths) > 1 {
				r.Printf("# %s\n", path)
			}
			if text := format.Format(m); text != "" {
				r.Println(text)
			}
			continue
		}
		files = append(files, parsedFile{Path: path, Module: format.Dump(m)})
	}

	var doc any
	switch {
	case opts.Format == "text":
		return nil
	case len(files) == 1:
		doc = files[0].Module
	default:
		doc = files
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func parsePath(cmd *cobra.Command, path string, cfg pyi.Config) (*core.Module, error) {
	var src []byte
	var err error
	if path == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(path) //nolint:gosec // G304: user-provided stub path
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	m, err := pyi.Parse(string(src), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
