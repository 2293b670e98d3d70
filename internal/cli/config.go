package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/ir"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Validate the --config file against the built-in schema and print the
result of unifying it with the defaults. Without --config the defaults
are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := ir.MarshalCanonical(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode config", err)
			}
			if opts.Format == "json" {
				return opts.printer(cmd).Print(cfg, nil)
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}
