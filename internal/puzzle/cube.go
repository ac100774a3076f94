// Package puzzle is the twisty puzzle engine: a grid of piece units inside a
// scene, a queue that animates one layer rotation at a time, and a facade that
// accepts moves from drags, letters and solvers.
package puzzle

import (
	"fmt"
	"math"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultOrder is the edge length of a standard cube.
	DefaultOrder = 3
	// DefaultSpeed is the frame count of a manual rotation.
	DefaultSpeed = 30
	// DefaultLetterSpeed is the frame count used when playing letter sequences.
	DefaultLetterSpeed = 10
)

// Solver tracks the abstract puzzle state alongside the rendered one.
type Solver interface {
	Move(letter string) error
	IsSolved() bool
	Solve() (string, error)
	Scramble() (string, error)
	Reset()
}

// LayerTracker is implemented by solvers that can record moves exactly, including
// inner layers that share a slice letter on larger puzzles.
type LayerTracker interface {
	ApplyMoves(moves ...notation.Move)
}

// MoveSolver is implemented by solvers that return their answer as moves.
type MoveSolver interface {
	SolveMoves() ([]notation.Move, error)
}

// MoveEvent reports a completed rotation.
type MoveEvent struct {
	Request
	Letter  string
	Frames  int
	Pending int // rotations still queued behind this one
}

// Option configures a Cube.
type Option func(*config)

type config struct {
	order       int
	speed       int
	letterSpeed int
	easing      scene.Easing
	solver      Solver
	log         logrus.FieldLogger
	observers   []func(MoveEvent)
	onStart     []func()
	onStop      []func()
}

func defaultConfig() config {
	return config{
		order:       DefaultOrder,
		speed:       DefaultSpeed,
		letterSpeed: DefaultLetterSpeed,
		easing:      scene.QuinticInOut,
		log:         logrus.StandardLogger(),
	}
}

// WithOrder sets the edge length in pieces.
func WithOrder(n int) Option {
	return func(c *config) {
		c.order = n
	}
}

// WithSpeed sets the default frame count of a rotation.
func WithSpeed(frames int) Option {
	return func(c *config) {
		if frames > 0 {
			c.speed = frames
		}
	}
}

// WithLetterSpeed sets the frame count used for letter, scramble and solve playback.
func WithLetterSpeed(frames int) Option {
	return func(c *config) {
		if frames > 0 {
			c.letterSpeed = frames
		}
	}
}

// WithEasing sets the rotation easing curve.
func WithEasing(e scene.Easing) Option {
	return func(c *config) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithSolver attaches the abstract state tracker.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMoveObserver registers a callback fired after every completed rotation.
func WithMoveObserver(fn func(MoveEvent)) Option {
	return func(c *config) {
		c.observers = append(c.observers, fn)
	}
}

// WithStartRotating registers a callback fired when the puzzle starts rotating.
func WithStartRotating(fn func()) Option {
	return func(c *config) {
		c.onStart = append(c.onStart, fn)
	}
}

// WithStopRotating registers a callback fired when the last queued rotation ends.
func WithStopRotating(fn func()) Option {
	return func(c *config) {
		c.onStop = append(c.onStop, fn)
	}
}

// Cube is an order x order x order puzzle rendered into a scene.
type Cube struct {
	scene   *scene.Scene
	grid    *Grid
	queue   *Queue
	order   int
	cfg     config
	solver  Solver
	log     logrus.FieldLogger
	preview preview
}

// New builds a solved puzzle in sc.
func New(sc *scene.Scene, opts ...Option) (*Cube, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.order < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, cfg.order)
	}

	c := &Cube{
		scene:  sc,
		grid:   NewGrid(cfg.order),
		order:  cfg.order,
		cfg:    cfg,
		solver: cfg.solver,
		log:    cfg.log.WithField("component", "puzzle"),
	}
	c.queue = NewQueue(RunnerFunc(c.run))
	c.queue.SetStartCallback(func() {
		c.log.Debug("rotation started")
		for _, fn := range c.cfg.onStart {
			fn()
		}
	})
	c.queue.SetStopCallback(func() {
		c.log.Debug("rotation stopped")
		for _, fn := range c.cfg.onStop {
			fn()
		}
	})

	c.build()
	return c, nil
}

// Order returns the edge length in pieces.
func (c *Cube) Order() int {
	return c.order
}

// Scene returns the scene the puzzle renders into.
func (c *Cube) Scene() *scene.Scene {
	return c.scene
}

// Grid returns the cell table.
func (c *Cube) Grid() *Grid {
	return c.grid
}

// State returns the rotation state.
func (c *Cube) State() State {
	return c.queue.State()
}

// IsRotating reports whether rotations are running or queued.
func (c *Cube) IsRotating() bool {
	return c.queue.State() == StateRotating
}

// Pending returns the number of queued rotations including the one in flight.
func (c *Cube) Pending() int {
	return c.queue.Len()
}

// Speed returns the default rotation frame count.
func (c *Cube) Speed() int {
	return c.cfg.speed
}

// LetterSpeed returns the playback frame count.
func (c *Cube) LetterSpeed() int {
	return c.cfg.letterSpeed
}

// RotatePieces queues a quarter turn of one layer. A non-positive speed uses the
// default frame count.
func (c *Cube) RotatePieces(axis notation.Axis, layer int, clockwise bool, speed int) error {
	return c.Enqueue(notation.Move{Axis: axis, Layer: layer, Clockwise: clockwise, Speed: speed}, SourceManual)
}

// Enqueue queues a move with its source.
func (c *Cube) Enqueue(m notation.Move, src Source) error {
	if m.Layer < 0 || m.Layer >= c.order {
		return fmt.Errorf("%w: layer %d on order %d", ErrInvalidLayer, m.Layer, c.order)
	}
	if m.Speed <= 0 {
		m.Speed = c.cfg.speed
	}
	c.queue.Enqueue(Request{Move: m, Source: src})
	return nil
}

// RotateByLetters queues a notation sequence at playback speed.
// Nothing is queued unless every token parses.
func (c *Cube) RotateByLetters(letters string) error {
	return c.playLetters(letters, SourceLetters)
}

func (c *Cube) playLetters(letters string, src Source) error {
	moves, err := notation.ParseSequence(letters, c.order)
	if err != nil {
		return err
	}
	for _, m := range moves {
		if err := c.Enqueue(m.WithSpeed(c.cfg.letterSpeed), src); err != nil {
			return err
		}
	}
	c.log.WithFields(logrus.Fields{
		"source": src,
		"moves":  len(moves),
	}).Debug("letters queued")
	return nil
}

// IsSolved reports whether the puzzle is solved. Without a solver the rendered
// stickers are inspected instead.
func (c *Cube) IsSolved() bool {
	if c.solver != nil {
		return c.solver.IsSolved()
	}
	return facesUniform(c.Facelets(), c.order)
}

// Answer returns a letter sequence that solves the puzzle from its current state.
func (c *Cube) Answer() (string, error) {
	if c.solver == nil {
		return "", ErrNoSolver
	}
	return c.solver.Solve()
}

// Solve queues the answer for playback and returns it.
func (c *Cube) Solve() (string, error) {
	if c.IsRotating() {
		return "", ErrRotating
	}
	if ms, ok := c.solver.(MoveSolver); ok {
		moves, err := ms.SolveMoves()
		if err != nil {
			return "", fmt.Errorf("failed to solve: %w", err)
		}
		for _, m := range moves {
			if err := c.Enqueue(m.WithSpeed(c.cfg.letterSpeed), SourceSolve); err != nil {
				return "", fmt.Errorf("failed to play answer: %w", err)
			}
		}
		return notation.FormatSequence(moves, c.order), nil
	}

	answer, err := c.Answer()
	if err != nil {
		return "", fmt.Errorf("failed to solve: %w", err)
	}
	if err := c.playLetters(answer, SourceSolve); err != nil {
		return "", fmt.Errorf("failed to play answer: %w", err)
	}
	return answer, nil
}

// Scramble resets an unsolved puzzle, then queues a random scramble and returns it.
func (c *Cube) Scramble() (string, error) {
	if c.solver == nil {
		return "", ErrNoSolver
	}
	if c.IsRotating() {
		return "", ErrRotating
	}
	if !c.IsSolved() {
		if err := c.Reset(); err != nil {
			return "", err
		}
	}
	letters, err := c.solver.Scramble()
	if err != nil {
		return "", fmt.Errorf("failed to scramble: %w", err)
	}
	if err := c.playLetters(letters, SourceScramble); err != nil {
		return "", fmt.Errorf("failed to play scramble: %w", err)
	}
	return letters, nil
}

// Reset destroys every piece and rebuilds a solved puzzle.
func (c *Cube) Reset() error {
	if c.IsRotating() {
		return ErrRotating
	}
	c.ClearPreRotate()
	for _, h := range c.grid.Clear() {
		c.scene.Destroy(h)
	}
	c.build()
	if c.solver != nil {
		c.solver.Reset()
	}
	c.log.Info("puzzle reset")
	return nil
}

func (c *Cube) build() {
	c.grid.each(func(coord Coord) {
		name := fmt.Sprintf("piece-%d-%d-%d", coord.X, coord.Y, coord.Z)
		h := c.scene.CreateBox(name, c.grid.Position(coord), 1, stickers(coord, c.order))
		c.grid.Set(coord, h)
	})
}

// run animates one layer, then bakes it, reseats the grid and notifies the solver.
// A preview on any other layer is dropped first.
func (c *Cube) run(req Request, done func()) {
	m := req.Move
	axis := int(m.Axis)

	// A tilted layer other than the one turning would be baked with the tilt.
	if c.preview.active && (c.preview.axis != m.Axis || c.preview.layer != m.Layer) {
		c.ClearPreRotate()
	}
	slots := c.grid.Layer(m.Axis, m.Layer)

	target := math.Pi / 2
	if !m.Clockwise {
		target = -target
	}

	group := c.scene.NewAnimationGroup(fmt.Sprintf("rotate-%s%d", m.Axis, m.Layer))
	prop := "rotation." + m.Axis.String()
	for _, s := range slots {
		u := c.scene.MustUnit(s.Handle)
		group.AddTargetedAnimation(scene.Animation{
			Property: prop,
			From:     u.Rotation[axis],
			To:       target,
			Frames:   m.Speed,
			Easing:   c.cfg.easing,
		}, u)
	}

	barrier := NewBarrier(len(slots), func() {
		if err := c.bake(m.Axis, slots); err != nil {
			c.log.WithError(err).Error("failed to bake rotation")
			panic(err)
		}

		letter := notation.Letter(m, c.order)
		c.notifySolver(m, letter)

		ev := MoveEvent{Request: req, Letter: letter, Frames: m.Speed, Pending: c.queue.Len() - 1}
		c.log.WithFields(logrus.Fields{
			"move":    letter,
			"source":  req.Source,
			"pending": ev.Pending,
		}).Debug("rotation applied")
		for _, fn := range c.cfg.observers {
			fn(ev)
		}

		done()
	})
	group.OnAnimationEnd(barrier.Done)
	group.Play()
}

// bake commits the rendered positions of a turned layer back into the grid.
func (c *Cube) bake(axis notation.Axis, slots []Slot) error {
	idx := int(axis)
	to := make([]Slot, len(slots))
	for i, s := range slots {
		u := c.scene.MustUnit(s.Handle)
		if math.Floor(u.Rotation[idx]/(math.Pi/2)) == 0 {
			u.Rotation[idx] = 0
		}
		coord, err := c.grid.CoordOf(u.AbsolutePosition())
		if err != nil {
			return err
		}
		u.Bake(c.grid.Position(coord))
		to[i] = Slot{Coord: coord, Handle: s.Handle}
	}
	return c.grid.Reseat(slots, to)
}

func (c *Cube) notifySolver(m notation.Move, letter string) {
	if c.solver == nil {
		return
	}
	if lt, ok := c.solver.(LayerTracker); ok {
		lt.ApplyMoves(m)
		return
	}
	if err := c.solver.Move(letter); err != nil {
		c.log.WithError(err).WithField("move", letter).Error("solver rejected move")
	}
}
