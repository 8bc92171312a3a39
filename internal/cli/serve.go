package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rwaldren/shuntyard/internal/engine"
	"github.com/rwaldren/shuntyard/internal/journal"
	"github.com/rwaldren/shuntyard/internal/layout"
	"github.com/rwaldren/shuntyard/internal/stream"
	"github.com/rwaldren/shuntyard/internal/yard"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		layoutPath string
		dbPath     string
		addr       string
		speed      float64
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a live yard simulation over HTTP",
		Long: `Run the simulation in real time and expose it over HTTP:

  GET  /events    server-sent event feed of the yard event log
  GET  /snapshot  full aggregate state as JSON
  POST /command   submit a command (create_train, assign_train, ...)

With --db, every event is also journaled to a SQLite database that the
trace command can read back later.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, layoutPath, dbPath, addr, speed, seed, cmd)
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "yard layout file (default: embedded standard layout)")
	cmd.Flags().StringVar(&dbPath, "db", "", "journal events to this SQLite database")
	cmd.Flags().StringVar(&addr, "addr", ":8917", "listen address")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "initial simulation speed multiplier")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "dice seed (0 means non-deterministic)")
	return cmd
}

func runServe(opts *RootOptions, layoutPath, dbPath, addr string, speed float64, seed uint64, cmd *cobra.Command) error {
	topo, err := loadTopology(layoutPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading layout", err)
	}

	engOpts := []engine.Option{engine.WithSpeed(speed)}
	if seed != 0 {
		engOpts = append(engOpts, engine.WithSeed(seed))
	}
	eng, err := engine.New(topo, engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "building engine", err)
	}

	if dbPath != "" {
		store, err := journal.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening journal", err)
		}
		defer store.Close()
		sub := eng.Subscribe(store.Recorder())
		defer eng.Unsubscribe(sub)
		slog.Info("journaling events", "db", dbPath)
	}

	srv := stream.NewServer(eng, slog.Default())
	defer srv.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "layout", topo.Name, "speed", speed)
		errCh <- httpSrv.ListenAndServe()
	}()

	// The engine's timer loop runs until the context is cancelled.
	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("engine stopped", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitFailure, "shutting down", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitFailure, "serving", err)
	}
}

func loadTopology(path string) (*yard.Topology, error) {
	if path == "" {
		return layout.Default()
	}
	return layout.LoadFile(path)
}
