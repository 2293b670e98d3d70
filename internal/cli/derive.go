package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/derive"
)

// NewDeriveCommand creates the derive command and its subcommands.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive section visibility and form resets",
		Long: `Compute the values the dashboard derives from other inputs: the
visibility of the indicator settings and strategy sections, of the
remove-strategy button, and the values a form reset writes.`,
	}

	cmd.AddCommand(newSelectionCommand(rootOpts))
	cmd.AddCommand(newReadinessCommand(rootOpts))
	cmd.AddCommand(newResetCommand(rootOpts))
	cmd.AddCommand(newRemoveStrategyCommand(rootOpts))
	return cmd
}

func newSelectionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selection [indicator...]",
		Short: "Visibility of the indicator settings for a selection",
		Example: `  stratui derive selection
  stratui derive selection rsi macd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			style := derive.SelectionVisibility(args)
			return opts.printer(cmd).Print(style, func(w io.Writer) {
				fmt.Fprintf(w, "display: %s\n", style.Display)
			})
		},
	}
}

func newReadinessCommand(opts *RootOptions) *cobra.Command {
	var (
		ready    bool
		children int
	)
	cmd := &cobra.Command{
		Use:     "readiness",
		Short:   "Visibility of the strategy section",
		Example: `  stratui derive readiness --ready --children 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			style := derive.ReadinessVisibility(ready, children)
			return opts.printer(cmd).Print(style, func(w io.Writer) {
				fmt.Fprintf(w, "display: %s\n", style.Display)
			})
		},
	}
	cmd.Flags().BoolVar(&ready, "ready", false, "data is ready")
	cmd.Flags().IntVar(&children, "children", 0, "number of rendered children")
	return cmd
}

func newRemoveStrategyCommand(opts *RootOptions) *cobra.Command {
	var strategies int
	cmd := &cobra.Command{
		Use:     "remove-strategy",
		Short:   "Visibility of the remove-strategy button",
		Example: `  stratui derive remove-strategy --strategies 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			style := derive.RemoveStrategyVisibility(strategies)
			return opts.printer(cmd).Print(style, func(w io.Writer) {
				fmt.Fprintf(w, "display: %s\n", style.Display)
			})
		},
	}
	cmd.Flags().IntVar(&strategies, "strategies", 1, "number of listed strategies")
	return cmd
}

func newResetCommand(opts *RootOptions) *cobra.Command {
	var clicks int64
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Values written by the reset button",
		Long: `Print the values the reset button writes into the data form. Defaults
come from the reset section of the config; the end date is today (UTC).
A click count of zero leaves every field unchanged.`,
		Example: `  stratui derive reset --clicks 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			reset := derive.NewResetter(derive.WithDefaults(cfg.Reset)).Reset(clicks)
			return opts.printer(cmd).Print(reset, func(w io.Writer) {
				fmt.Fprintln(w, reset)
			})
		},
	}
	cmd.Flags().Int64Var(&clicks, "clicks", 1, "click count of the reset button")
	return cmd
}
