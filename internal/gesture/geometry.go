// Package gesture turns pointer drags on the puzzle into layer moves.
package gesture

import (
	"math"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxPreviewAngle is the largest tilt shown while dragging.
	MaxPreviewAngle = math.Pi / 8
	// SaturationDistance is the drag component at which the preview reaches MaxPreviewAngle.
	SaturationDistance = 2.0
	// ArmDistance is the drag length that must be exceeded before a move is armed.
	ArmDistance = 1.0
	// PlaneWidth is the edge length of the helper plane laid over a picked face.
	PlaneWidth = 50.0
)

const axisEpsilon = 1e-6

var unitAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// PlaneEquation returns the coefficients of a*x + b*y + c*z = d through the triangle.
// (a, b, c) is the unnormalized normal given by the vertex winding.
func PlaneEquation(tri scene.Triangle) (a, b, c, d float64) {
	n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	return n[0], n[1], n[2], n.Dot(tri[0])
}

func orthogonal(u, v mgl64.Vec3) bool {
	return math.Abs(u.Dot(v)) < axisEpsilon*u.Len()*v.Len()+axisEpsilon
}

// FaceCenter returns the midpoint of the hypotenuse of a right triangle. For
// either half of a square face this is the center of the square.
func FaceCenter(tri scene.Triangle) mgl64.Vec3 {
	p1, p2, p3 := tri[0], tri[1], tri[2]
	v1 := p2.Sub(p1)
	v2 := p3.Sub(p2)
	v3 := p1.Sub(p3)
	switch {
	case orthogonal(v1, v2):
		return p1.Add(p3).Mul(0.5)
	case orthogonal(v2, v3):
		return p2.Add(p1).Mul(0.5)
	default:
		return p2.Add(p3).Mul(0.5)
	}
}

// AlignDirection snaps v to the signed unit axis of its largest component.
// Ties prefer X, then Y. A zero vector aligns to +X.
func AlignDirection(v mgl64.Vec3) mgl64.Vec3 {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	var i int
	switch {
	case ax >= ay && ax >= az:
		i = 0
	case ay >= az:
		i = 1
	default:
		i = 2
	}
	if v[i] >= 0 {
		return unitAxes[i]
	}
	return unitAxes[i].Mul(-1)
}

// ConicAngle maps a drag component to a preview angle. It grows with the square
// of the distance and saturates at max once |v| reaches SaturationDistance.
func ConicAngle(v, max float64) float64 {
	var angle float64
	if math.Abs(v) >= SaturationDistance {
		angle = max
	} else {
		angle = math.Pow(v/SaturationDistance, 2) * max
	}
	if v > 0 {
		return angle
	}
	return -angle
}

// Candidate is the layer a drag would turn and the preview angle to show.
type Candidate struct {
	Axis  notation.Axis
	Layer int
	Angle float64
}

// Clockwise reports the direction the candidate commits in.
func (c Candidate) Clockwise() bool {
	return c.Angle >= 0
}

// Move returns the quarter turn the candidate commits to.
func (c Candidate) Move(speed int) notation.Move {
	return notation.Move{Axis: c.Axis, Layer: c.Layer, Clockwise: c.Clockwise(), Speed: speed}
}

// normalAxis returns the world axis a face normal points along.
func normalAxis(n mgl64.Vec3) (notation.Axis, bool) {
	if n.Len() < axisEpsilon {
		return 0, false
	}
	n = n.Normalize()
	for i, axis := range notation.Axes {
		others := 0.0
		for j := range n {
			if j != i {
				others += math.Abs(n[j])
			}
		}
		if others < axisEpsilon {
			return axis, true
		}
	}
	return 0, false
}

// Classify picks the layer and angle for a drag on a face.
//
// drag runs from the face center to the current pointer hit on the face plane;
// normal is the face normal and center the face center, both in world space.
// The dominant in-plane drag axis selects the rotation axis: on a face spanned
// by axes A and B, dragging along A turns about B and vice versa. Faces on the
// negative side of the puzzle flip the angle. Degenerate input yields no
// candidate.
func Classify(drag, normal, center mgl64.Vec3, order int) (Candidate, bool) {
	faceAxis, ok := normalAxis(normal)
	if !ok {
		return Candidate{}, false
	}

	// only the in-plane part of the drag counts
	drag[faceAxis] = 0
	if drag.Len() < axisEpsilon {
		return Candidate{}, false
	}
	dir := AlignDirection(drag)
	conic := func(v float64) float64 { return ConicAngle(v, MaxPreviewAngle) }

	var cand Candidate
	switch faceAxis {
	case notation.Z:
		if dir[0] == 0 {
			cand = Candidate{Axis: notation.X, Angle: -conic(drag[1])}
		} else {
			cand = Candidate{Axis: notation.Y, Angle: conic(drag[0])}
		}
	case notation.X:
		if dir[1] == 0 {
			cand = Candidate{Axis: notation.Y, Angle: -conic(drag[2])}
		} else {
			cand = Candidate{Axis: notation.Z, Angle: conic(drag[1])}
		}
	default:
		if dir[0] == 0 {
			cand = Candidate{Axis: notation.X, Angle: conic(drag[2])}
		} else {
			cand = Candidate{Axis: notation.Z, Angle: -conic(drag[0])}
		}
	}
	if center[faceAxis] < 0 {
		cand.Angle = -cand.Angle
	}

	layer := puzzle.NormalizeAxisValue(center[cand.Axis]) + puzzle.Offset(order)
	rounded := math.Round(layer)
	if math.Abs(layer-rounded) > axisEpsilon || rounded < 0 || int(rounded) >= order {
		return Candidate{}, false
	}
	cand.Layer = int(rounded)
	return cand, true
}
