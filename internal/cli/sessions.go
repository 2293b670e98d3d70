package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(opts *RootOptions) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "List journaled sessions",
		Example: `  stratui sessions --db ./stratui.db`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			j, err := openJournal(db, cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			sessions, err := j.ListSessions(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list sessions", err)
			}
			return opts.printer(cmd).Print(sessions, func(w io.Writer) {
				if len(sessions) == 0 {
					fmt.Fprintln(w, "No sessions found.")
					return
				}
				for _, s := range sessions {
					fmt.Fprintf(w, "%s\t%d passes\tlast seq %d\n", s.Session, s.Passes, s.LastSeq)
				}
			})
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "journal path (defaults to journal.path)")
	return cmd
}
