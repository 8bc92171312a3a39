package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Append inserts one event. ON CONFLICT DO NOTHING makes the append
// idempotent: re-recording an already-journaled event id is a no-op,
// which matches the append-only, never-mutated contract of the log.
func (s *Store) Append(ctx context.Context, ev yard.Event) error {
	dataJSON, err := marshalData(ev.Data)
	if err != nil {
		return fmt.Errorf("append event %s: %w", ev.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, seq, ts, type, train_id, severity, message, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		ev.ID,
		ev.Seq,
		ev.Timestamp.UTC().Format(time.RFC3339Nano),
		string(ev.Type),
		ev.TrainID,
		string(ev.Severity),
		ev.Message,
		dataJSON,
	)
	if err != nil {
		return fmt.Errorf("append event %s: %w", ev.ID, err)
	}
	return nil
}

// Recorder returns a subscriber that journals every event as it is
// emitted. Write failures are logged and dropped: the simulation must
// not stall on archive trouble.
func (s *Store) Recorder() func(yard.Event) {
	return func(ev yard.Event) {
		if err := s.Append(context.Background(), ev); err != nil {
			slog.Error("journal append failed",
				"error", err,
				"event_id", ev.ID,
				"seq", ev.Seq,
				"type", string(ev.Type),
			)
		}
	}
}
