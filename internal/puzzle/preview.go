package puzzle

import (
	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// preview tracks the layer currently tilted by a drag.
type preview struct {
	active  bool
	axis    notation.Axis
	layer   int
	touched []scene.Handle
}

// PreRotate tilts one layer to angle without committing a move.
// Switching to another layer first restores the previous one.
// Calls are ignored while a rotation is running.
func (c *Cube) PreRotate(axis notation.Axis, layer int, angle float64) {
	if c.IsRotating() || layer < 0 || layer >= c.order {
		return
	}
	if c.preview.active && (c.preview.axis != axis || c.preview.layer != layer) {
		c.ClearPreRotate()
	}

	slots := c.grid.Layer(axis, layer)
	touched := c.preview.touched[:0]
	for _, s := range slots {
		u, ok := c.scene.Unit(s.Handle)
		if !ok {
			continue
		}
		u.Rotation[int(axis)] = angle
		touched = append(touched, s.Handle)
	}

	c.preview = preview{active: true, axis: axis, layer: layer, touched: touched}
}

// ClearPreRotate zeroes the transient rotation of every piece touched by the
// preview and forgets the previewed layer.
func (c *Cube) ClearPreRotate() {
	for _, h := range c.preview.touched {
		if u, ok := c.scene.Unit(h); ok {
			u.Rotation = mgl64.Vec3{}
		}
	}
	c.preview = preview{}
}

// Previewing returns the previewed layer, if any.
func (c *Cube) Previewing() (notation.Axis, int, bool) {
	return c.preview.axis, c.preview.layer, c.preview.active
}
