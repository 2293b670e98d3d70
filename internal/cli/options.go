package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
)

// OptionsOptions holds flags for the options command.
type OptionsOptions struct {
	*RootOptions
	Control string
	Store   string
	Query   string
	Source  string
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List a popover's options",
		Long: `List the options a popover shows for a search query, marking the option
committed in the control's row. Each option carries the id its button
reports when clicked.

--control, --store and --src take JSON (comments allowed) or @file.
--src is {"data": [...], "param_source": {...}}; comparison operator
popovers ignore it.

Examples:
  stratui options --control '{"strategy":1,"condition":"buy","index":0,"type":"comparison_operator"}'
  stratui options --control @control.jsonc --store @store.jsonc --src @columns.jsonc --query rsi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Control, "control", "", "identity of the popover")
	cmd.Flags().StringVar(&opts.Store, "store", "", "conditions store")
	cmd.Flags().StringVar(&opts.Query, "query", "", "search text")
	cmd.Flags().StringVar(&opts.Source, "src", "", "option source")

	return cmd
}

func runOptions(opts *OptionsOptions, cmd *cobra.Command) error {
	control, err := parseControl(opts.Control)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --control", err)
	}
	if control == nil || control.Type == "" {
		return NewExitError(ExitCommandError, "--control with a type is required")
	}
	store, err := parseStore(opts.Store)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --store", err)
	}

	var payload conditions.OptionsPayload
	if strings.TrimSpace(opts.Source) != "" {
		if err := decodeDocument(opts.Source, &payload); err != nil {
			return WrapExitError(ExitCommandError, "invalid --src", err)
		}
	}

	buttons := conditions.Options(store, *control, opts.Query, payload)
	return opts.printer(cmd).Print(buttons, func(w io.Writer) {
		if len(buttons) == 0 {
			fmt.Fprintln(w, "no options")
			return
		}
		for _, b := range buttons {
			mark := " "
			if b.Selected {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, b.Text)
			if opts.Verbose {
				if id, err := ir.MarshalCanonical(b.ID); err == nil {
					fmt.Fprintf(w, "    %s\n", id)
				}
			}
		}
	})
}
