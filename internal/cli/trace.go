package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwaldren/shuntyard/internal/journal"
	"github.com/rwaldren/shuntyard/internal/yard"
)

// TraceResult is the json payload of a trace query.
type TraceResult struct {
	Database string       `json:"database"`
	Total    int64        `json:"total"`
	Events   []yard.Event `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		trainID  string
		typ      string
		severity string
		sinceSeq int64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "trace <events.db>",
		Short: "Query a journaled event log",
		Long: `Read events back from a journal database written by run --db or
serve --db, optionally filtered by train, type, severity, or sequence.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := journal.Filter{
				TrainID:  trainID,
				Type:     yard.EventType(typ),
				Severity: yard.Severity(severity),
				SinceSeq: sinceSeq,
				Limit:    limit,
			}
			return runTrace(rootOpts, args[0], f, cmd)
		},
	}

	cmd.Flags().StringVar(&trainID, "train", "", "filter by train id")
	cmd.Flags().StringVar(&typ, "type", "", "filter by event type (e.g. train:moved)")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (info|warning|error|success)")
	cmd.Flags().Int64Var(&sinceSeq, "since-seq", 0, "only events with seq greater than this")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events (0 means all)")
	return cmd
}

func runTrace(opts *RootOptions, dbPath string, f journal.Filter, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(dbPath); err != nil {
		if outErr := formatter.Error("db_not_found", "journal database not found: "+dbPath, nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "journal database not found", err)
	}

	store, err := journal.Open(dbPath)
	if err != nil {
		if outErr := formatter.Error("db_open_failed", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "opening journal", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	events, err := store.ReadEvents(ctx, f)
	if err != nil {
		if outErr := formatter.Error("db_read_failed", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "reading events", err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "counting events", err)
	}

	if opts.Format == "json" {
		return formatter.Success(TraceResult{Database: dbPath, Total: total, Events: events})
	}

	formatter.VerboseLog("%d of %d events match", len(events), total)
	for _, ev := range events {
		cmd.Printf("%5d  %s  %-18s %-8s %s\n",
			ev.Seq, ev.Timestamp.Format("15:04:05.000"), ev.Type, ev.Severity, ev.Message)
	}
	return nil
}
