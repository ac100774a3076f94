package gesture

import (
	"time"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

const (
	// PickDelay keeps a fresh helper plane out of picking so the pointer-down
	// that created it cannot hit it.
	PickDelay = 10 * time.Millisecond
	// HoldThreshold is the minimum press duration that can commit a move.
	HoldThreshold = 100 * time.Millisecond
)

// Puzzle is what the controller drives.
type Puzzle interface {
	Order() int
	IsRotating() bool
	PreRotate(axis notation.Axis, layer int, angle float64)
	ClearPreRotate()
	RotatePieces(axis notation.Axis, layer int, clockwise bool, speed int) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller is the pointer state machine for drag-to-move input.
type Controller struct {
	scene  *scene.Scene
	puzzle Puzzle
	now    func() time.Time
	log    logrus.FieldLogger

	frozen     bool
	pressedAt  time.Time
	pressed    bool
	plane      scene.Handle
	planeReady time.Time
	armed      *Candidate
}

// NewController creates a controller for a puzzle rendered in sc.
func NewController(sc *scene.Scene, p Puzzle, opts ...Option) *Controller {
	c := &Controller{
		scene:  sc,
		puzzle: p,
		now:    time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetFrozen blocks pointer input, for example while a dialog is open.
func (c *Controller) SetFrozen(frozen bool) {
	c.frozen = frozen
}

// Frozen reports whether pointer input is ignored.
func (c *Controller) Frozen() bool {
	return c.frozen || c.puzzle.IsRotating()
}

// Armed returns the candidate that would commit on release.
func (c *Controller) Armed() (Candidate, bool) {
	if c.armed == nil {
		return Candidate{}, false
	}
	return *c.armed, true
}

// Dragging reports whether a helper plane is in place.
func (c *Controller) Dragging() bool {
	return c.plane != 0
}

// PointerDown picks a piece face and lays a helper plane over it.
func (c *Controller) PointerDown(ray scene.Ray) {
	if c.Frozen() {
		return
	}
	c.pressedAt = c.now()
	c.pressed = true
	c.armed = nil
	c.dropPlane()

	hit := c.scene.Pick(ray, func(u *scene.Unit) bool { return u.Kind == scene.KindBox })
	if !hit.Hit {
		return
	}
	tri, err := c.scene.FaceVertices(hit.Handle, hit.FaceID)
	if err != nil {
		c.log.WithError(err).Warn("picked face has no vertices")
		return
	}

	a, b, cc, _ := PlaneEquation(tri)
	normal := mgl64.Vec3{a, b, cc}
	center := FaceCenter(tri)

	c.plane = c.scene.CreatePlane("directionPlane", center, normal, PlaneWidth)
	c.scene.SetPickable(c.plane, false)
	c.scene.SetVisible(c.plane, false)
	c.planeReady = c.pressedAt.Add(PickDelay)

	c.log.WithFields(logrus.Fields{
		"unit":   hit.Handle,
		"normal": normal,
	}).Debug("drag started")
}

// PointerMove updates the preview from a drag over the helper plane.
func (c *Controller) PointerMove(ray scene.Ray) {
	if c.Frozen() || c.plane == 0 {
		return
	}
	if !c.now().Before(c.planeReady) {
		c.scene.SetPickable(c.plane, true)
	}

	plane := c.plane
	hit := c.scene.Pick(ray, func(u *scene.Unit) bool { return u.Handle == plane })
	if !hit.Hit {
		return
	}

	center := c.scene.MustUnit(plane).Position
	drag := hit.Point.Sub(center)
	cand, ok := Classify(drag, hit.Normal, center, c.puzzle.Order())
	if ok && drag.Len() > ArmDistance {
		c.puzzle.PreRotate(cand.Axis, cand.Layer, cand.Angle)
		c.armed = &cand
		return
	}
	c.armed = nil
	c.puzzle.ClearPreRotate()
}

// PointerUp commits an armed candidate when the press was held long enough and
// always clears the preview. It returns the committed move, if any. A frozen
// controller abandons the drag without committing.
func (c *Controller) PointerUp() (notation.Move, bool) {
	if c.Frozen() {
		c.Cancel()
		return notation.Move{}, false
	}
	c.dropPlane()

	var (
		committed notation.Move
		ok        bool
	)
	if c.armed != nil && c.pressed && c.now().Sub(c.pressedAt) >= HoldThreshold {
		m := c.armed.Move(0)
		if err := c.puzzle.RotatePieces(m.Axis, m.Layer, m.Clockwise, 0); err != nil {
			c.log.WithError(err).Warn("failed to commit drag")
		} else {
			committed, ok = m, true
		}
	}

	c.armed = nil
	c.pressed = false
	c.puzzle.ClearPreRotate()
	return committed, ok
}

// Cancel abandons the drag without committing.
func (c *Controller) Cancel() {
	c.dropPlane()
	c.armed = nil
	c.pressed = false
	c.puzzle.ClearPreRotate()
}

// dropPlane forgets the helper plane before freeing it.
func (c *Controller) dropPlane() {
	if c.plane == 0 {
		return
	}
	h := c.plane
	c.plane = 0
	c.scene.Destroy(h)
}
