package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/journal"
	"github.com/roach88/stratui/internal/resolver"
	"github.com/roach88/stratui/internal/session"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Control string
	PropID  string
	Value   string
	Store   string
	Label   string
	DB      string
	Session string
}

// ResolveResult is the outcome of one resolution pass.
type ResolveResult struct {
	Decision ir.Decision     `json:"decision"`
	State    ir.ControlState `json:"state"`
	Trace    resolver.Trace  `json:"trace"`
	PassID   string          `json:"pass_id,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one control's popover state",
		Long: `Resolve the open state and handle label of one popover control for one
trigger, and print the decision with the steps that produced it.

--control and --store take JSON (comments allowed) or @file.
--value takes JSON; other text is used as a string.

Exit codes:
  0 - Decision printed
  2 - Command error (bad JSON, unreadable file, journal error)

Examples:
  stratui resolve --control '{"strategy":1,"condition":"buy","index":0,"type":"column_dropdown","role":"input"}' \
    --prop-id '{"condition":"buy","index":0,"role":"input","strategy":1,"type":"column_dropdown"}.n_clicks' --value 1
  stratui resolve --control @control.jsonc --store @store.jsonc --label "Select column"
  stratui resolve --control @control.jsonc --db ./stratui.db --session demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Control, "control", "", "identity of the control to resolve")
	cmd.Flags().StringVar(&opts.PropID, "prop-id", "", "prop_id of the triggering event (none when empty)")
	cmd.Flags().StringVar(&opts.Value, "value", "", "value of the triggering event")
	cmd.Flags().StringVar(&opts.Store, "store", "", "conditions store")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label the handle currently shows")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the pass in this journal (defaults to journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token for the recorded pass (new when empty)")

	return cmd
}

func runResolve(ctx context.Context, opts *ResolveOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd, cfg)

	control, err := parseControl(opts.Control)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --control", err)
	}
	store, err := parseStore(opts.Store)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --store", err)
	}
	value, err := parseValue(opts.Value)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --value", err)
	}

	trigger := ir.TriggerContext{}
	if opts.PropID != "" {
		trigger = ir.NewTriggerContext(opts.PropID, value)
	}

	var labels ir.LabelStore
	if store != nil {
		labels = store
	}

	r := newResolver(cfg, logger)
	decision, trace := r.ResolveWithTrace(trigger, control, labels, opts.Label)

	result := ResolveResult{
		Decision: decision,
		State:    decision.Apply(ir.ControlState{Label: opts.Label}),
		Trace:    trace,
	}

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = cfg.Journal.Path
	}
	if dbPath != "" {
		id, err := recordPass(ctx, dbPath, opts.Session, control, trigger, store, opts.Label, decision, trace)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record pass", err)
		}
		result.PassID = id
		logger.Debug("pass recorded", "id", id, "db", dbPath)
	}

	return opts.printer(cmd).Print(result, func(w io.Writer) {
		fmt.Fprintf(w, "decision: %s\n", decision)
		fmt.Fprintf(w, "state: opened=%t label=%q\n", result.State.Opened, result.State.Label)
		if opts.Verbose {
			fmt.Fprintln(w, trace)
		}
		if result.PassID != "" {
			fmt.Fprintf(w, "recorded: %s\n", result.PassID)
		}
	})
}

func recordPass(
	ctx context.Context,
	dbPath, token string,
	control *ir.ControlIdentity,
	trigger ir.TriggerContext,
	store conditions.Store,
	label string,
	decision ir.Decision,
	trace resolver.Trace,
) (string, error) {
	j, err := journal.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer j.Close()

	if token == "" {
		token = session.UUIDv7Generator{}.Generate()
	}
	last, err := j.LastSeq(ctx, token)
	if err != nil {
		return "", err
	}

	p := journal.Pass{
		Session:      token,
		Seq:          last + 1,
		Trigger:      trigger,
		Store:        store.Snapshot(),
		CurrentLabel: label,
		Decision:     decision,
		Trace:        trace,
	}
	if control != nil {
		p.Control = *control
	}
	id, _, err := j.WritePass(ctx, p)
	return id, err
}
