package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line used for picking.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// PickResult describes the nearest hit of a ray.
type PickResult struct {
	Hit      bool
	Handle   Handle
	Point    mgl64.Vec3
	Normal   mgl64.Vec3 // unit normal of the hit triangle, facing its outward side
	FaceID   int        // triangle index within the unit
	Distance float64
}

// Triangle is three world space vertices.
type Triangle [3]mgl64.Vec3

// Normal returns the unit normal given by the winding of the vertices.
func (t Triangle) Normal() mgl64.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
}

// tangents returns u, v with u x v = n for an axis aligned or arbitrary normal.
func tangents(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 0, 1}
	}
	u := ref.Cross(n).Normalize()
	v := n.Cross(u)
	return u, v
}

// localTriangles returns the triangles of a unit in its resting local frame,
// two per face: (c-u-v, c+u-v, c+u+v) and (c-u-v, c+u+v, c-u+v).
func (u *Unit) localTriangles() []Triangle {
	half := u.Size / 2
	quad := func(c, a, b mgl64.Vec3) [2]Triangle {
		a, b = a.Mul(half), b.Mul(half)
		p0 := c.Sub(a).Sub(b)
		p1 := c.Add(a).Sub(b)
		p2 := c.Add(a).Add(b)
		p3 := c.Sub(a).Add(b)
		return [2]Triangle{{p0, p1, p2}, {p0, p2, p3}}
	}

	if u.Kind == KindPlane {
		a, b := tangents(u.Normal)
		q := quad(mgl64.Vec3{}, a, b)
		return q[:]
	}

	tris := make([]Triangle, 0, 12)
	for _, n := range LocalNormals {
		a, b := tangents(n)
		q := quad(n.Mul(half), a, b)
		tris = append(tris, q[0], q[1])
	}
	return tris
}

// Triangles returns the unit's triangles in world space.
func (u *Unit) Triangles() []Triangle {
	m := u.WorldMatrix()
	local := u.localTriangles()
	world := make([]Triangle, len(local))
	for i, tri := range local {
		for j, p := range tri {
			world[i][j] = m.Mul4x1(p.Vec4(1)).Vec3()
		}
	}
	return world
}

// FaceVertices returns the world space vertices of one triangle of a unit.
func (s *Scene) FaceVertices(h Handle, faceID int) (Triangle, error) {
	u, ok := s.units[h]
	if !ok {
		return Triangle{}, fmt.Errorf("%w: %d", ErrUnknownUnit, h)
	}
	tris := u.Triangles()
	if faceID < 0 || faceID >= len(tris) {
		return Triangle{}, fmt.Errorf("%w: %d on unit %d", ErrInvalidFace, faceID, h)
	}
	return tris[faceID], nil
}

// Pick returns the nearest pickable unit hit by the ray.
// filter, when not nil, further restricts the candidates.
func (s *Scene) Pick(ray Ray, filter func(*Unit) bool) PickResult {
	best := PickResult{Distance: math.Inf(1)}
	for _, u := range s.Units() {
		if !u.Pickable || (filter != nil && !filter(u)) {
			continue
		}
		for i, tri := range u.Triangles() {
			t, ok := intersect(ray, tri)
			if !ok || t >= best.Distance {
				continue
			}
			best = PickResult{
				Hit:      true,
				Handle:   u.Handle,
				Point:    ray.At(t),
				Normal:   tri.Normal(),
				FaceID:   i,
				Distance: t,
			}
		}
	}
	if !best.Hit {
		return PickResult{}
	}
	return best
}

const rayEpsilon = 1e-9

// intersect is the Moller-Trumbore ray/triangle test. Both sides count as hits.
func intersect(ray Ray, tri Triangle) (float64, bool) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(tri[0])
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}
