package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rwaldren/shuntyard/internal/harness"
	"github.com/rwaldren/shuntyard/internal/journal"
)

// RunResult is the json payload of a scenario run.
type RunResult struct {
	Scenario string              `json:"scenario"`
	Passed   bool                `json:"passed"`
	Events   int                 `json:"events"`
	Failures []string            `json:"failures,omitempty"`
	Trace    []harness.TraceEvent `json:"trace,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scripted scenario",
		Long: `Run a scripted yard scenario and evaluate its assertions.

The run is fully deterministic: fixed start time, sequential ids, and
scripted dice. Exit code 1 means one or more assertions failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "journal the run's events to this SQLite database")
	return cmd
}

func runScenario(opts *RootOptions, path, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		if outErr := formatter.Error("scenario_invalid", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "loading scenario", err)
	}

	formatter.VerboseLog("Running scenario %s (%d steps, %d assertions)",
		scenario.Name, len(scenario.Steps), len(scenario.Assertions))

	result, err := harness.Run(scenario)
	if err != nil {
		if outErr := formatter.Error("scenario_failed", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "running scenario", err)
	}

	if dbPath != "" {
		if err := journalRun(cmd.Context(), dbPath, result); err != nil {
			if outErr := formatter.Error("journal_failed", err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "writing journal", err)
		}
		formatter.VerboseLog("Journaled %d events to %s", len(result.Events), dbPath)
	}

	out := RunResult{
		Scenario: result.Scenario,
		Passed:   result.Passed,
		Events:   len(result.Events),
	}
	for _, f := range result.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	if opts.Verbose {
		out.Trace = result.Trace
	}

	if opts.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		printRunResult(cmd, out)
	}

	if !result.Passed {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", result.Scenario))
	}
	return nil
}

func journalRun(ctx context.Context, dbPath string, result *harness.Result) error {
	store, err := journal.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	for _, ev := range result.Events {
		if err := store.Append(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func printRunResult(cmd *cobra.Command, out RunResult) {
	status := "PASS"
	if !out.Passed {
		status = "FAIL"
	}
	cmd.Printf("%s %s (%d events)\n", status, out.Scenario, out.Events)
	for _, f := range out.Failures {
		cmd.Printf("  assertion failed: %s\n", f)
	}
	for _, ev := range out.Trace {
		cmd.Printf("  %3d %-18s %-10s %-8s %s\n", ev.Seq, ev.Type, ev.Train, ev.Severity, ev.Message)
	}
}
