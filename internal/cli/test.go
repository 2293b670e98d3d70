package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/stratui/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // glob on scenario names
}

// ScenarioResult holds the result of a single scenario.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Passes int      `json:"passes"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run popover scenarios",
		Long: `Run every YAML scenario in a directory against a fresh session and
check its step expectations and assertions. The resolver uses the catalog
from --config.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, invalid scenario)

Examples:
  stratui test ./scenarios
  stratui test ./scenarios --filter "option_*"
  stratui test ./scenarios --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only scenarios whose name matches this glob")
	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(dir); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir), err)
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return WrapExitError(ExitCommandError, "invalid --filter", err)
		}
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd, cfg)

	scenarios, err := harness.LoadDir(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}}
	run := harness.Options{Resolver: newResolver(cfg, logger), Logger: logger}

	for _, s := range scenarios {
		if opts.Filter != "" {
			if ok, _ := filepath.Match(opts.Filter, s.Name); !ok {
				continue
			}
		}

		logger.Debug("running scenario", "name", s.Name)
		r, err := harness.RunWithOptions(ctx, s, run)
		sr := ScenarioResult{Name: s.Name}
		switch {
		case err != nil:
			sr.Errors = []string{err.Error()}
		default:
			sr.Pass = r.Pass
			sr.Passes = len(r.Passes)
			if len(r.Errors) > 0 {
				sr.Errors = r.Errors
			}
		}

		result.Scenarios = append(result.Scenarios, sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	p := opts.printer(cmd)
	text := func(w io.Writer) { writeTestText(w, result) }
	if result.Failed > 0 {
		if err := p.Fail("E_SCENARIO", fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total), result, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "scenarios failed")
	}
	return p.Print(result, text)
}

func writeTestText(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range result.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s %s (%d passes)\n", status, s.Name, s.Passes)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
