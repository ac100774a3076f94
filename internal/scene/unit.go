package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes unit geometry.
type Kind int

const (
	KindBox Kind = iota
	KindPlane
)

// Material is an opaque per-face material id. Zero is the inner material.
type Material uint8

// LocalNormals lists the local face normals of a box in face index order.
var LocalNormals = [6]mgl64.Vec3{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}

// Unit is one renderable object.
//
// Its world transform is the transient Rotation (applied about the world origin,
// X then Y then Z) composed with the resting transform given by Position and
// Orientation.
type Unit struct {
	Handle      Handle
	Name        string
	Kind        Kind
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Rotation    mgl64.Vec3 // transient per-axis angles in radians
	Size        float64
	Normal      mgl64.Vec3 // planes only
	Faces       [6]Material
	Pickable    bool
	Visible     bool
}

// TransientMatrix returns the rotation built from the transient per-axis angles.
func (u *Unit) TransientMatrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(u.Rotation[2]).
		Mul4(mgl64.HomogRotate3DY(u.Rotation[1])).
		Mul4(mgl64.HomogRotate3DX(u.Rotation[0]))
}

// TransientQuat returns the transient rotation as a quaternion.
func (u *Unit) TransientQuat() mgl64.Quat {
	return mgl64.QuatRotate(u.Rotation[2], mgl64.Vec3{0, 0, 1}).
		Mul(mgl64.QuatRotate(u.Rotation[1], mgl64.Vec3{0, 1, 0})).
		Mul(mgl64.QuatRotate(u.Rotation[0], mgl64.Vec3{1, 0, 0}))
}

// WorldMatrix returns the full transform from local to world space.
func (u *Unit) WorldMatrix() mgl64.Mat4 {
	p := u.Position
	return u.TransientMatrix().
		Mul4(mgl64.Translate3D(p[0], p[1], p[2])).
		Mul4(u.Orientation.Mat4())
}

// AbsolutePosition returns the rendered center of the unit in world space.
func (u *Unit) AbsolutePosition() mgl64.Vec3 {
	return u.TransientMatrix().Mul4x1(u.Position.Vec4(1)).Vec3()
}

// Bake folds the transient rotation into Orientation, moves the unit to position
// and zeroes the transient angles. Orientations that are within rounding error of
// a quarter-turn lattice are snapped onto it.
func (u *Unit) Bake(position mgl64.Vec3) {
	q := u.TransientQuat().Mul(u.Orientation).Normalize()
	u.Orientation = snapQuat(q)
	u.Position = position
	u.Rotation = mgl64.Vec3{}
}

// WorldNormal returns the world direction of local face i after the resting
// orientation and the transient rotation.
func (u *Unit) WorldNormal(i int) mgl64.Vec3 {
	n := u.Orientation.Rotate(LocalNormals[i])
	return u.TransientQuat().Rotate(n)
}

// Property implements Animatable.
func (u *Unit) Property(name string) (float64, error) {
	idx, err := rotationIndex(name)
	if err != nil {
		return 0, err
	}
	return u.Rotation[idx], nil
}

// SetProperty implements Animatable.
func (u *Unit) SetProperty(name string, value float64) error {
	idx, err := rotationIndex(name)
	if err != nil {
		return err
	}
	u.Rotation[idx] = value
	return nil
}

func rotationIndex(name string) (int, error) {
	switch name {
	case "rotation.x":
		return 0, nil
	case "rotation.y":
		return 1, nil
	case "rotation.z":
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
}

const snapEpsilon = 1e-6

// snapQuat rounds a rotation whose matrix entries are all near -1, 0 or 1.
func snapQuat(q mgl64.Quat) mgl64.Quat {
	m := q.Mat4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			v := m.At(row, col)
			r := math.Round(v)
			if math.Abs(v-r) > snapEpsilon {
				return q
			}
			m.Set(row, col, r)
		}
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}
