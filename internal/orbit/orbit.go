// Package orbit moves an arc rotate camera between discrete viewpoints around
// the puzzle.
package orbit

import (
	"fmt"
	"math"

	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRadius is the camera distance from the puzzle center.
	DefaultRadius = 8.0
	// DefaultFrames is the length of a camera move.
	DefaultFrames = 30
)

// Alphas are the four azimuth stops, one per quadrant.
var Alphas = [4]float64{math.Pi / 4, 3 * math.Pi / 4, 5 * math.Pi / 4, 7 * math.Pi / 4}

// Betas are the two elevation stops: above and below the equator.
var Betas = [2]float64{math.Pi / 3, 2 * math.Pi / 3}

// Camera is an arc rotate camera looking at the origin.
type Camera struct {
	Alpha  float64
	Beta   float64
	Radius float64
}

// Property implements scene.Animatable.
func (c *Camera) Property(name string) (float64, error) {
	switch name {
	case "alpha":
		return c.Alpha, nil
	case "beta":
		return c.Beta, nil
	case "radius":
		return c.Radius, nil
	default:
		return 0, fmt.Errorf("%w: camera %s", scene.ErrUnknownProperty, name)
	}
}

// SetProperty implements scene.Animatable.
func (c *Camera) SetProperty(name string, v float64) error {
	switch name {
	case "alpha":
		c.Alpha = v
	case "beta":
		c.Beta = v
	case "radius":
		c.Radius = v
	default:
		return fmt.Errorf("%w: camera %s", scene.ErrUnknownProperty, name)
	}
	return nil
}

// Position returns the camera position in world space. Alpha is measured in the
// X-Z plane from +X toward +Z and beta from +Y.
func (c *Camera) Position() mgl64.Vec3 {
	sb := math.Sin(c.Beta)
	return mgl64.Vec3{
		c.Radius * math.Cos(c.Alpha) * sb,
		c.Radius * math.Cos(c.Beta),
		c.Radius * math.Sin(c.Alpha) * sb,
	}
}

// Ray returns the ray from the camera through the point target.
func (c *Camera) Ray(target mgl64.Vec3) scene.Ray {
	p := c.Position()
	return scene.Ray{Origin: p, Direction: target.Sub(p).Normalize()}
}

// Option configures a Controller.
type Option func(*Controller)

// WithFrames sets the length of each camera move.
func WithFrames(frames int) Option {
	return func(c *Controller) {
		if frames > 0 {
			c.frames = frames
		}
	}
}

// WithEasing sets the camera easing curve.
func WithEasing(e scene.Easing) Option {
	return func(c *Controller) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller keeps the discrete camera stop and animates the camera toward it.
type Controller struct {
	scene     *scene.Scene
	camera    *Camera
	azimuth   int
	elevation int
	frames    int
	easing    scene.Easing
	group     *scene.AnimationGroup
	log       logrus.FieldLogger
}

// NewController creates a controller with the camera parked at the home stop.
func NewController(sc *scene.Scene, opts ...Option) *Controller {
	c := &Controller{
		scene:  sc,
		camera: &Camera{Alpha: Alphas[0], Beta: Betas[0], Radius: DefaultRadius},
		frames: DefaultFrames,
		easing: scene.QuinticInOut,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Camera returns the animated camera.
func (c *Controller) Camera() *Camera {
	return c.camera
}

// Stop returns the current (azimuth, elevation) indices.
func (c *Controller) Stop() (int, int) {
	return c.azimuth, c.elevation
}

// Animating reports whether a camera move is in flight.
func (c *Controller) Animating() bool {
	return c.group != nil && c.group.Playing()
}

// Step moves delta azimuth stops. Positive steps turn forward.
func (c *Controller) Step(delta int) {
	c.azimuth = wrap(c.azimuth + delta)
	c.animate(delta > 0)
}

// ToggleElevation flips between the upper and lower view.
func (c *Controller) ToggleElevation() {
	c.elevation = 1 - c.elevation
	c.animate(true)
}

// ResetToHome returns to the first stop.
func (c *Controller) ResetToHome() {
	c.azimuth, c.elevation = 0, 0
	c.animate(true)
}

func wrap(i int) int {
	return ((i % 4) + 4) % 4
}

// animate cancels any camera move and eases from the current angles to the
// current stop. The start azimuth is unwrapped into the requested winding so a
// forward move never spins backward.
func (c *Controller) animate(forward bool) {
	if c.group != nil {
		c.group.Stop()
	}

	alpha, beta := Alphas[c.azimuth], Betas[c.elevation]
	from := c.camera.Alpha
	if forward && from > alpha {
		from -= 2 * math.Pi
	} else if !forward && from < alpha {
		from += 2 * math.Pi
	}

	g := c.scene.NewAnimationGroup("camera")
	g.AddTargetedAnimation(scene.Animation{Property: "alpha", From: from, To: alpha, Frames: c.frames, Easing: c.easing}, c.camera)
	g.AddTargetedAnimation(scene.Animation{Property: "beta", From: c.camera.Beta, To: beta, Frames: c.frames, Easing: c.easing}, c.camera)
	c.group = g.Play()

	c.log.WithFields(logrus.Fields{
		"azimuth":   c.azimuth,
		"elevation": c.elevation,
		"from":      from,
		"to":        alpha,
	}).Debug("camera move")
}
