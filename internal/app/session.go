// Package app composes the puzzle engine, input controllers and collaborators
// into one interactive session.
package app

import (
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubescene/internal/config"
	"github.com/SeamusWaldron/cubescene/internal/gesture"
	"github.com/SeamusWaldron/cubescene/internal/journal"
	"github.com/SeamusWaldron/cubescene/internal/metrics"
	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/orbit"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/SeamusWaldron/cubescene/internal/solver"
	"github.com/sirupsen/logrus"
)

// Prompt is the content of a confirmation dialog.
type Prompt struct {
	Title string
	Body  string
	No    string
	Yes   string
}

// Dialog shows a prompt and reports the answer through done. done may be called
// later from the UI loop.
type Dialog interface {
	Confirm(p Prompt, done func(yes bool))
}

// DialogFunc adapts a function to Dialog.
type DialogFunc func(p Prompt, done func(yes bool))

// Confirm calls f.
func (f DialogFunc) Confirm(p Prompt, done func(yes bool)) { f(p, done) }

var (
	solvedPrompt = Prompt{
		Title: "Solved!",
		Body:  "Start a new scramble?",
		No:    "Close",
		Yes:   "Restart",
	}
	restartPrompt = Prompt{
		Title: "Restart",
		Body:  "Restarting loses the current progress. Continue?",
		No:    "Keep playing",
		Yes:   "Restart",
	}
)

// Option configures a Session.
type Option func(*Session)

// WithRecorder journals sessions and moves.
func WithRecorder(r *journal.Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithMetrics counts activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock replaces time.Now for pointer timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithMoveObserver registers a callback for every committed move.
func WithMoveObserver(fn func(puzzle.MoveEvent)) Option {
	return func(s *Session) {
		s.observers = append(s.observers, fn)
	}
}

// WithSolver replaces the default history solver.
func WithSolver(sv puzzle.Solver) Option {
	return func(s *Session) {
		s.solver = sv
	}
}

// Session is one interactive puzzle with its camera, input and dialogs.
type Session struct {
	scene    *scene.Scene
	cube     *puzzle.Cube
	solver   puzzle.Solver
	gesture  *gesture.Controller
	orbit    *orbit.Controller
	dialog   Dialog
	recorder *journal.Recorder
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	now      func() time.Time

	observers  []func(puzzle.MoveEvent)
	dialogOpen bool
}

// New builds a solved puzzle session from cfg.
func New(cfg *config.Config, dialog Dialog, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		scene:  scene.New(),
		dialog: dialog,
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.solver == nil {
		solverOpts := []solver.Option{solver.WithScrambleLength(cfg.Scramble.Length)}
		if cfg.Scramble.Seed != 0 {
			solverOpts = append(solverOpts, solver.WithSeed(cfg.Scramble.Seed))
		}
		hs, err := solver.NewHistorySolver(cfg.Puzzle.Order, solverOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create solver: %w", err)
		}
		s.solver = hs
	}

	easing, err := scene.EasingByName(cfg.Animation.Easing, cfg.Animation.Speed)
	if err != nil {
		return nil, err
	}
	cameraEasing, err := scene.EasingByName(cfg.Animation.Easing, cfg.Camera.Speed)
	if err != nil {
		return nil, err
	}

	s.cube, err = puzzle.New(s.scene,
		puzzle.WithOrder(cfg.Puzzle.Order),
		puzzle.WithSpeed(cfg.Animation.Speed),
		puzzle.WithLetterSpeed(cfg.Animation.LetterSpeed),
		puzzle.WithEasing(easing),
		puzzle.WithSolver(s.solver),
		puzzle.WithLogger(s.log),
		puzzle.WithMoveObserver(s.onMove),
		puzzle.WithStartRotating(s.onStartRotating),
		puzzle.WithStopRotating(s.onStopRotating),
	)
	if err != nil {
		return nil, err
	}

	s.gesture = gesture.NewController(s.scene, s.cube,
		gesture.WithClock(s.now),
		gesture.WithLogger(s.log.WithField("component", "gesture")),
	)
	s.orbit = orbit.NewController(s.scene,
		orbit.WithFrames(cfg.Camera.Speed),
		orbit.WithEasing(cameraEasing),
		orbit.WithLogger(s.log.WithField("component", "orbit")),
	)
	return s, nil
}

// Cube returns the puzzle.
func (s *Session) Cube() *puzzle.Cube { return s.cube }

// Scene returns the scene everything renders into.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Camera returns the orbit camera.
func (s *Session) Camera() *orbit.Camera { return s.orbit.Camera() }

// Orbit returns the camera controller.
func (s *Session) Orbit() *orbit.Controller { return s.orbit }

// Gesture returns the pointer controller.
func (s *Session) Gesture() *gesture.Controller { return s.gesture }

// Frozen reports whether puzzle input is ignored: while rotating or while a
// dialog is open.
func (s *Session) Frozen() bool {
	return s.dialogOpen || s.cube.IsRotating()
}

// DialogOpen reports whether a confirmation is pending.
func (s *Session) DialogOpen() bool {
	return s.dialogOpen
}

// Tick renders one frame.
func (s *Session) Tick() {
	s.scene.Tick()
}

// Start begins a new game, asking first when progress would be lost.
func (s *Session) Start() error {
	if s.cube.IsRotating() {
		return puzzle.ErrRotating
	}
	if s.cube.IsSolved() {
		return s.Restart()
	}
	s.confirm(restartPrompt, func(yes bool) {
		if !yes {
			return
		}
		if err := s.Restart(); err != nil {
			s.log.WithError(err).Error("failed to restart")
		}
	})
	return nil
}

// Restart closes the journal session, resets an unsolved puzzle and plays a
// new scramble.
func (s *Session) Restart() error {
	s.cancelDrag()
	s.endJournal()
	letters, err := s.cube.Scramble()
	if err != nil {
		return fmt.Errorf("failed to restart: %w", err)
	}
	if s.metrics != nil {
		s.metrics.Restarted()
	}
	if s.recorder != nil {
		if _, err := s.recorder.Start(s.cube.Order(), letters); err != nil {
			s.log.WithError(err).Warn("journal unavailable")
		}
	}
	s.log.WithField("scramble", letters).Info("scrambled")
	return nil
}

// AutoSolve shows the solver's answer and plays it when confirmed.
func (s *Session) AutoSolve() error {
	if s.cube.IsRotating() {
		return puzzle.ErrRotating
	}
	answer, err := s.cube.Answer()
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}
	body := answer
	if body == "" {
		body = "Already solved."
	}
	s.confirm(Prompt{Title: "Answer", Body: body, No: "Close", Yes: "Auto solve"}, func(yes bool) {
		if !yes {
			return
		}
		if _, err := s.cube.Solve(); err != nil {
			s.log.WithError(err).Error("failed to auto solve")
		}
	})
	return nil
}

// Reset rebuilds a solved puzzle without scrambling.
func (s *Session) Reset() error {
	s.cancelDrag()
	if err := s.cube.Reset(); err != nil {
		return err
	}
	s.endJournal()
	return nil
}

// RotateByLetters queues a notation sequence.
func (s *Session) RotateByLetters(letters string) error {
	if s.dialogOpen {
		return nil
	}
	moves, err := notation.ParseSequence(letters, s.cube.Order())
	if err != nil {
		return err
	}
	if len(moves) > 0 {
		s.cancelDrag()
	}
	return s.cube.RotateByLetters(letters)
}

// ApplySmartCube queues moves reported by a physical cube. They are accepted
// even while rotating so the mirror never drops a turn.
func (s *Session) ApplySmartCube(moves []notation.Move) error {
	if len(moves) > 0 {
		s.cancelDrag()
	}
	for _, m := range moves {
		if err := s.cube.Enqueue(m.WithSpeed(s.cube.LetterSpeed()), puzzle.SourceSmartCube); err != nil {
			return err
		}
	}
	return nil
}

// PointerDown starts a drag.
func (s *Session) PointerDown(ray scene.Ray) {
	if s.dialogOpen {
		return
	}
	s.gesture.PointerDown(ray)
}

// PointerMove updates a drag.
func (s *Session) PointerMove(ray scene.Ray) {
	if s.dialogOpen {
		return
	}
	s.gesture.PointerMove(ray)
}

// PointerUp ends a drag, committing the armed move if any.
func (s *Session) PointerUp() (notation.Move, bool) {
	if s.dialogOpen {
		return notation.Move{}, false
	}
	return s.gesture.PointerUp()
}

// StepCamera moves the camera delta azimuth stops.
func (s *Session) StepCamera(delta int) { s.orbit.Step(delta) }

// ToggleElevation flips the camera between the upper and lower view.
func (s *Session) ToggleElevation() { s.orbit.ToggleElevation() }

// ResetCamera returns the camera to its home stop.
func (s *Session) ResetCamera() { s.orbit.ResetToHome() }

// Close ends an open journal session.
func (s *Session) Close() {
	s.endJournal()
}

func (s *Session) confirm(p Prompt, fn func(yes bool)) {
	if s.dialog == nil {
		fn(false)
		return
	}
	s.dialogOpen = true
	s.gesture.Cancel()
	s.gesture.SetFrozen(true)
	s.dialog.Confirm(p, func(yes bool) {
		s.dialogOpen = false
		s.gesture.SetFrozen(false)
		fn(yes)
	})
}

// cancelDrag abandons a drag in progress before a move from elsewhere is
// queued, so its preview never overlaps that rotation.
func (s *Session) cancelDrag() {
	if s.gesture.Dragging() {
		s.gesture.Cancel()
	}
}

func (s *Session) endJournal() {
	if s.recorder == nil || s.recorder.State() != journal.StateRecording {
		return
	}
	if err := s.recorder.End(s.cube.IsSolved()); err != nil {
		s.log.WithError(err).Warn("failed to close journal session")
	}
}

func (s *Session) onMove(ev puzzle.MoveEvent) {
	if s.metrics != nil {
		s.metrics.MoveCommitted(string(ev.Source), ev.Frames, ev.Pending)
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ev); err != nil {
			s.log.WithError(err).Warn("failed to journal move")
		}
	}
	for _, fn := range s.observers {
		fn(ev)
	}
}

func (s *Session) onStartRotating() {
	if s.metrics != nil {
		s.metrics.RotationStarted(s.cube.Pending())
	}
}

func (s *Session) onStopRotating() {
	if !s.cube.IsSolved() {
		return
	}
	if s.metrics != nil {
		s.metrics.Solved()
	}
	s.endJournal()
	s.confirm(solvedPrompt, func(yes bool) {
		if !yes {
			return
		}
		if err := s.Restart(); err != nil {
			s.log.WithError(err).Error("failed to restart")
		}
	})
}
