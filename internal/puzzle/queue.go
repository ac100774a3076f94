package puzzle

import (
	"github.com/SeamusWaldron/cubescene/internal/notation"
)

// State is the rotation state of the puzzle.
type State int

const (
	StateIdle State = iota
	StateRotating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Source records where a queued move came from.
type Source string

const (
	SourceManual    Source = "manual"
	SourceLetters   Source = "letters"
	SourceScramble  Source = "scramble"
	SourceSolve     Source = "solve"
	SourceSmartCube Source = "smartcube"
)

// Request is one queued layer rotation.
type Request struct {
	Move   notation.Move
	Source Source
}

// Runner performs a single rotation and calls done exactly once when the
// rotation has been fully applied.
type Runner interface {
	Run(req Request, done func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(req Request, done func())

// Run implements Runner.
func (f RunnerFunc) Run(req Request, done func()) { f(req, done) }

// Queue serializes rotations. The request at the head is the one in flight and
// stays queued until its runner reports completion, so the queue is non-empty
// exactly while the state is rotating.
type Queue struct {
	runner   Runner
	pending  []Request
	state    State
	seq      int
	onStart  func()
	onStop   func()
	onFinish func(Request)
}

// NewQueue creates an idle queue driving runner.
func NewQueue(runner Runner) *Queue {
	return &Queue{runner: runner}
}

// SetStartCallback sets the callback fired on the idle to rotating transition.
func (q *Queue) SetStartCallback(fn func()) {
	q.onStart = fn
}

// SetStopCallback sets the callback fired when the last queued rotation finishes.
func (q *Queue) SetStopCallback(fn func()) {
	q.onStop = fn
}

// SetFinishCallback sets the callback fired after each rotation completes,
// before the next one starts.
func (q *Queue) SetFinishCallback(fn func(Request)) {
	q.onFinish = fn
}

// State returns the current state.
func (q *Queue) State() State {
	return q.state
}

// Len returns the number of queued rotations including the one in flight.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the queued rotations, head first.
func (q *Queue) Pending() []Request {
	out := make([]Request, len(q.pending))
	copy(out, q.pending)
	return out
}

// Enqueue appends a rotation and starts it when the queue was idle.
func (q *Queue) Enqueue(req Request) {
	q.pending = append(q.pending, req)
	if q.state == StateIdle {
		q.state = StateRotating
		if q.onStart != nil {
			q.onStart()
		}
		q.startHead()
	}
}

func (q *Queue) startHead() {
	q.seq++
	seq := q.seq
	q.runner.Run(q.pending[0], func() { q.finish(seq) })
}

// finish dequeues the head. Completions from stale runs are ignored.
func (q *Queue) finish(seq int) {
	if seq != q.seq || len(q.pending) == 0 {
		return
	}
	done := q.pending[0]
	q.pending = q.pending[1:]
	if q.onFinish != nil {
		q.onFinish(done)
	}
	if len(q.pending) == 0 {
		q.state = StateIdle
		if q.onStop != nil {
			q.onStop()
		}
		return
	}
	q.startHead()
}

// Barrier runs fn once after Done has been called n times.
type Barrier struct {
	remaining int
	fn        func()
}

// NewBarrier creates a barrier for n completions. A barrier for zero completions
// fires on the first Done.
func NewBarrier(n int, fn func()) *Barrier {
	if n < 1 {
		n = 1
	}
	return &Barrier{remaining: n, fn: fn}
}

// Done records one completion.
func (b *Barrier) Done() {
	if b.remaining == 0 {
		return
	}
	b.remaining--
	if b.remaining == 0 {
		b.fn()
	}
}

// Remaining returns the outstanding completions.
func (b *Barrier) Remaining() int {
	return b.remaining
}
