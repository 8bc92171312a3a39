package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Filter narrows a journal read. Zero values mean "no constraint".
type Filter struct {
	TrainID  string
	Type     yard.EventType
	Severity yard.Severity
	SinceSeq int64 // exclusive
	Limit    int
}

// compile turns the filter into a WHERE clause and args. Clauses are
// emitted in a fixed order so the same filter always produces the same
// SQL text.
func (f Filter) compile() (string, []any) {
	var clauses []string
	var args []any

	if f.TrainID != "" {
		clauses = append(clauses, "train_id = ?")
		args = append(args, f.TrainID)
	}
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Severity != "" {
		clauses = append(clauses, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if f.SinceSeq > 0 {
		clauses = append(clauses, "seq > ?")
		args = append(args, f.SinceSeq)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ReadEvents returns journaled events matching the filter, ordered by
// seq ascending. Returns an empty slice (not nil) when nothing matches.
func (s *Store) ReadEvents(ctx context.Context, f Filter) ([]yard.Event, error) {
	where, args := f.compile()
	query := `
		SELECT id, seq, ts, type, train_id, severity, message, data
		FROM events` + where + `
		ORDER BY seq ASC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []yard.Event{}
	for rows.Next() {
		var ev yard.Event
		var ts, typ, severity, data string
		if err := rows.Scan(&ev.ID, &ev.Seq, &ts, &typ, &ev.TrainID, &severity, &ev.Message, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		ev.Type = yard.EventType(typ)
		ev.Severity = yard.Severity(severity)
		ev.Data, err = unmarshalData(data)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Count returns the number of journaled events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
