// Package session owns the in-memory registry of live analysis sessions.
// Sessions are volatile and process-private; there is no persistence.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
)

// ErrNotFound is returned for unknown or already-ended session ids.
var ErrNotFound = errors.New("session not found")

// Handle is the caller-facing view of a started session.
type Handle struct {
	SessionID     string          `json:"session_id"`
	StartTime     time.Time       `json:"start_time"`
	Configuration config.Pipeline `json:"configuration"`
}

// Session is one interview's rolling analysis state. Its fields are only
// touched while its own mutex is held, which Registry.Apply arranges; the
// accessor methods below assume that lock is already held.
type Session struct {
	mu sync.Mutex

	id        string
	startedAt time.Time
	touchedAt time.Time
	ended     bool

	state   analysis.AggregatedState
	history []analysis.Result
}

func (s *Session) ID() string            { return s.id }
func (s *Session) StartedAt() time.Time  { return s.startedAt }
func (s *Session) State() analysis.AggregatedState { return s.state }

// SetState replaces the aggregated state and refreshes the touch timestamp.
func (s *Session) SetState(st analysis.AggregatedState, now time.Time) {
	s.state = st
	s.touchedAt = now
}

// History exposes the stored results in arrival order. The returned slice is
// the live buffer; callers outside Apply must go through Registry.History.
func (s *Session) History() []analysis.Result { return s.history }

// Append stores a result, trimming the buffer to the most recent trimTo
// entries once limit is exceeded. It reports whether a trim happened.
func (s *Session) Append(r analysis.Result, limit, trimTo int) bool {
	s.history = append(s.history, r)
	if len(s.history) > limit {
		s.history = append([]analysis.Result(nil), s.history[len(s.history)-trimTo:]...)
		return true
	}
	return false
}

// Registry is a concurrency-safe keyed store of sessions. The map lock is
// held only for lookups and membership changes; per-session work serializes
// on the session's own mutex so independent sessions never contend.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg    config.Pipeline
	logger *slog.Logger
}

func NewRegistry(cfg config.Pipeline, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		logger:   logger,
	}
}

// Start creates a fresh session for the id. Starting an id that is already
// active resets it; callers are responsible for not re-starting live
// sessions, the registry only logs the replacement.
func (r *Registry) Start(id string, now time.Time) Handle {
	s := &Session{
		id:        id,
		startedAt: now,
		touchedAt: now,
		state:     analysis.NewAggregatedState(),
	}

	r.mu.Lock()
	if prev, ok := r.sessions[id]; ok {
		prev.mu.Lock()
		prev.ended = true
		prev.mu.Unlock()
		r.logger.Warn("replacing active session", "session_id", id, "prev_started_at", prev.startedAt)
	}
	r.sessions[id] = s
	r.mu.Unlock()

	return Handle{SessionID: id, StartTime: now, Configuration: r.cfg}
}

// End removes the session and discards its state and history. In-flight
// requests for the session fail with ErrNotFound rather than resurrecting
// the freed state.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	s.ended = true
	s.history = nil
	s.mu.Unlock()
	return nil
}

// Apply runs fn with exclusive ownership of the session. Updates for one
// session are serialized in arrival order; sessions with different ids
// proceed in parallel.
func (r *Registry) Apply(id string, fn func(s *Session) error) error {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrNotFound
	}
	return fn(s)
}

// State returns a copy of the session's aggregated state.
func (r *Registry) State(id string) (analysis.AggregatedState, error) {
	var state analysis.AggregatedState
	err := r.Apply(id, func(s *Session) error {
		state = s.state
		return nil
	})
	return state, err
}

// History returns the session's results in arrival order as a copy, so the
// caller can paginate without racing the live buffer.
func (r *Registry) History(id string) ([]analysis.Result, error) {
	var out []analysis.Result
	err := r.Apply(id, func(s *Session) error {
		out = append([]analysis.Result(nil), s.history...)
		return nil
	})
	return out, err
}

// Count reports the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
