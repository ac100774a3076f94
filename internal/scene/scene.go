// Package scene is a headless scene graph: renderable units with transforms,
// keyframe animations advanced by explicit frame ticks, and ray picking.
//
// It plays the part of the rendering engine for the puzzle. Nothing here knows
// about cubes or moves; callers own the meaning of every unit they create.
package scene

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Errors
var (
	ErrUnknownUnit     = errors.New("scene: unknown unit")
	ErrUnknownProperty = errors.New("scene: unknown animation property")
	ErrInvalidFace     = errors.New("scene: invalid face id")
)

// Handle identifies a unit owned by the scene.
// The zero handle never refers to a unit.
type Handle int

// Scene owns every unit and every playing animation group.
type Scene struct {
	units  map[Handle]*Unit
	next   Handle
	frame  int
	groups []*AnimationGroup
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		units: make(map[Handle]*Unit),
	}
}

// CreateBox creates a cube shaped unit of edge size centered at position.
// faces holds one material per local face in LocalNormals order.
func (s *Scene) CreateBox(name string, position mgl64.Vec3, size float64, faces [6]Material) Handle {
	s.next++
	u := &Unit{
		Handle:      s.next,
		Name:        name,
		Kind:        KindBox,
		Position:    position,
		Orientation: mgl64.QuatIdent(),
		Size:        size,
		Faces:       faces,
		Pickable:    true,
		Visible:     true,
	}
	s.units[u.Handle] = u
	return u.Handle
}

// CreatePlane creates a double sided square of the given width lying in the plane
// through center with the given normal.
func (s *Scene) CreatePlane(name string, center, normal mgl64.Vec3, width float64) Handle {
	s.next++
	u := &Unit{
		Handle:      s.next,
		Name:        name,
		Kind:        KindPlane,
		Position:    center,
		Orientation: mgl64.QuatIdent(),
		Normal:      normal.Normalize(),
		Size:        width,
		Pickable:    true,
		Visible:     true,
	}
	s.units[u.Handle] = u
	return u.Handle
}

// Destroy frees a unit. Destroying an unknown handle is a no-op.
func (s *Scene) Destroy(h Handle) {
	delete(s.units, h)
}

// Unit returns the unit for a handle.
func (s *Scene) Unit(h Handle) (*Unit, bool) {
	u, ok := s.units[h]
	return u, ok
}

// MustUnit returns the unit for a handle and panics if it does not exist.
func (s *Scene) MustUnit(h Handle) *Unit {
	u, ok := s.units[h]
	if !ok {
		panic(ErrUnknownUnit)
	}
	return u
}

// Units returns all units ordered by handle.
func (s *Scene) Units() []*Unit {
	units := make([]*Unit, 0, len(s.units))
	for _, u := range s.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Handle < units[j].Handle })
	return units
}

// Len returns the number of live units.
func (s *Scene) Len() int {
	return len(s.units)
}

// SetPickable toggles whether a unit can be hit by Pick.
func (s *Scene) SetPickable(h Handle, pickable bool) {
	if u, ok := s.units[h]; ok {
		u.Pickable = pickable
	}
}

// SetVisible toggles unit visibility. Invisible units can still be picked.
func (s *Scene) SetVisible(h Handle, visible bool) {
	if u, ok := s.units[h]; ok {
		u.Visible = visible
	}
}

// Frame returns the number of frames rendered so far.
func (s *Scene) Frame() int {
	return s.frame
}

// Animating reports whether any animation group is playing.
func (s *Scene) Animating() bool {
	return len(s.groups) > 0
}
