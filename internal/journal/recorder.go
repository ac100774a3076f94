// Package journal records puzzle sessions and their committed moves. The
// journal is write-only history and never restores puzzle state.
package journal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyRecording is returned by Start while a session is open.
	ErrAlreadyRecording = errors.New("journal: session already in progress")
	// ErrNotRecording is returned by End without an open session.
	ErrNotRecording = errors.New("journal: no session in progress")
)

// State is the recorder lifecycle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Recorder) {
		r.log = l
	}
}

// Recorder writes sessions and moves to the database.
type Recorder struct {
	sessions *storage.SessionRepository
	moves    *storage.MoveRepository
	now      func() time.Time
	log      logrus.FieldLogger

	mu        sync.RWMutex
	state     State
	sessionID string
	startTime time.Time
	moveIndex int

	onMove func(storage.MoveRecord)
}

// NewRecorder creates an idle recorder over db.
func NewRecorder(db *storage.DB, opts ...Option) *Recorder {
	r := &Recorder{
		sessions: storage.NewSessionRepository(db),
		moves:    storage.NewMoveRepository(db),
		now:      time.Now,
		log:      logrus.StandardLogger(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithField("component", "journal")
	return r
}

// SetMoveCallback sets the callback for stored moves.
func (r *Recorder) SetMoveCallback(cb func(storage.MoveRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMove = cb
}

// State returns the recorder state.
func (r *Recorder) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SessionID returns the open or last session ID.
func (r *Recorder) SessionID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionID
}

// MoveCount returns the number of moves stored in the current session.
func (r *Recorder) MoveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moveIndex
}

// ElapsedMs returns the time since the session started.
func (r *Recorder) ElapsedMs() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateRecording {
		return 0
	}
	return r.now().Sub(r.startTime).Milliseconds()
}

// Start opens a new session.
func (r *Recorder) Start(order int, scramble string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	start := r.now()
	id, err := r.sessions.Create(order, scramble, start)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	r.sessionID = id
	r.startTime = start
	r.moveIndex = 0
	r.state = StateRecording
	r.log.WithField("session", id).Info("session started")
	return id, nil
}

// Record stores a committed move. Moves outside a session are ignored.
func (r *Recorder) Record(ev puzzle.MoveEvent) error {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil
	}

	rec := storage.MoveRecord{
		SessionID: r.sessionID,
		MoveIndex: r.moveIndex,
		TsMs:      r.now().Sub(r.startTime).Milliseconds(),
		Letter:    ev.Letter,
		Move:      ev.Move,
		Source:    string(ev.Source),
	}
	rec.Move.Speed = 0

	id, err := r.moves.Create(rec)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to store move: %w", err)
	}
	rec.MoveID = id
	r.moveIndex++
	cb := r.onMove
	r.mu.Unlock()

	if cb != nil {
		cb(rec)
	}
	return nil
}

// End closes the open session.
func (r *Recorder) End(solved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return ErrNotRecording
	}

	if err := r.sessions.End(r.sessionID, r.now(), solved, r.moveIndex); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	r.state = StateEnded
	r.log.WithFields(logrus.Fields{
		"session": r.sessionID,
		"solved":  solved,
		"moves":   r.moveIndex,
	}).Info("session ended")
	return nil
}
