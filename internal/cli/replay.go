package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/config"
	"github.com/roach88/stratui/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	DB      string
	Session string // replay one session only
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-resolve journaled passes and compare decisions",
		Long: `Re-run every recorded pass through the resolver, with the trigger,
store snapshot and label it was recorded with, and report passes whose
decision differs from the recorded one.

Exit codes:
  0 - Every pass reproduced its decision
  1 - One or more passes diverged
  2 - Command error (journal missing or unreadable)

Examples:
  stratui replay --db ./stratui.db
  stratui replay --db ./stratui.db --session demo --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "journal path (defaults to journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay this session only")
	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd, cfg)

	j, err := openJournal(opts.DB, cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	result, err := j.Verify(ctx, newResolver(cfg, logger), opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay journal", err)
	}

	p := opts.printer(cmd)
	text := func(w io.Writer) {
		for _, m := range result.Mismatches {
			fmt.Fprintf(w, "MISMATCH %s\n", m)
		}
		fmt.Fprintf(w, "%d sessions, %d passes, %d mismatches\n",
			result.Sessions, result.Passes, len(result.Mismatches))
	}
	if !result.OK() {
		if err := p.Fail("E_REPLAY", "replayed decisions differ from the journal", result, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "replay diverged")
	}
	return p.Print(result, text)
}

// openJournal opens the journal named by flag, or the configured one.
func openJournal(flag string, cfg *config.Config) (*journal.Journal, error) {
	path := flag
	if path == "" {
		path = cfg.Journal.Path
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no journal: pass --db or set journal.path")
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return j, nil
}
