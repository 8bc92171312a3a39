// Package stream exposes a running engine over HTTP: a server-sent
// event feed of the yard event log, a JSON snapshot endpoint, and a
// command intake endpoint.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/r3labs/sse/v2"

	"github.com/rwaldren/shuntyard/internal/engine"
	"github.com/rwaldren/shuntyard/internal/yard"
)

const eventStream = "events"

// Server bridges the engine's synchronous event bus to SSE clients.
//
// The engine delivers events under its own lock, so the bus handler
// only enqueues onto a buffered channel; a dedicated goroutine does
// the marshaling and publishing. When the channel is full the event is
// dropped for the stream (the engine's log and the journal still hold
// it).
type Server struct {
	eng *engine.Engine
	sse *sse.Server
	ch  chan yard.Event
	sub engine.Subscription
	log *slog.Logger
}

func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	s := &Server{
		eng: eng,
		sse: sse.New(),
		ch:  make(chan yard.Event, 256),
		log: logger,
	}
	s.sse.AutoReplay = false
	s.sse.CreateStream(eventStream)

	s.sub = eng.Subscribe(func(ev yard.Event) {
		select {
		case s.ch <- ev:
		default:
			s.log.Warn("event stream backlog full, dropping event",
				"seq", ev.Seq, "type", string(ev.Type))
		}
	})
	go s.forward()
	return s
}

func (s *Server) forward() {
	for ev := range s.ch {
		data, err := json.Marshal(ev)
		if err != nil {
			s.log.Error("marshal event for stream", "seq", ev.Seq, "error", err)
			continue
		}
		s.sse.TryPublish(eventStream, &sse.Event{
			Event: []byte(ev.Type),
			Data:  data,
		})
	}
}

// Handler returns the HTTP surface:
//
//	GET  /events    SSE feed (stream=events)
//	GET  /snapshot  full aggregate state as JSON
//	POST /command   submit one command
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /command", s.handleCommand)
	return mux
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// The sse package selects streams by query parameter; default to
	// the single stream we publish.
	if r.URL.Query().Get("stream") == "" {
		q := r.URL.Query()
		q.Set("stream", eventStream)
		r.URL.RawQuery = q.Encode()
	}
	s.sse.ServeHTTP(w, r)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.eng.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Error("write snapshot", "error", err)
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd engine.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid command body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.eng.Submit(cmd)
	// Commands are fire-and-forget; outcomes surface on the event feed.
	w.WriteHeader(http.StatusAccepted)
}

// Close detaches from the engine and tears down the SSE streams. Safe
// only after in-flight emits have returned, which the engine mutex
// already guarantees once Unsubscribe returns.
func (s *Server) Close() {
	s.eng.Unsubscribe(s.sub)
	close(s.ch)
	s.sse.Close()
}
