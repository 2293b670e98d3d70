package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/config"
	"github.com/roach88/stratui/internal/resolver"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // CUE config file, empty for defaults
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the stratui command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stratui",
		Short: "Popover state resolver for the strategy dashboard",
		Long: `stratui decides the open state and handle label of the strategy
dashboard's popover controls, derives the visibility of its sections and
the values of a form reset, and replays recorded resolution passes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE config file")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return GetExitCode(err)
}

// Main is the entry point used by cmd/stratui.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// logger logs to the command's stderr at the configured level. --verbose
// lowers it to debug.
func (o *RootOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := cfg.Log.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) printer(cmd *cobra.Command) *Printer {
	return &Printer{Format: o.Format, Out: cmd.OutOrStdout()}
}

func newResolver(cfg *config.Config, logger *slog.Logger) *resolver.Resolver {
	return resolver.New(resolver.WithCatalog(cfg.Catalog), resolver.WithLogger(logger))
}
