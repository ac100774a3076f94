package puzzle

import (
	"math"
	"strings"

	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is an outer face of the puzzle. Its value doubles as the sticker material.
type Face int

const (
	FaceNone Face = iota
	FaceU
	FaceR
	FaceF
	FaceD
	FaceL
	FaceB
)

// FaceOrder is the order faces appear in a facelet string.
var FaceOrder = [6]Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB}

// Letter returns the face letter.
func (f Face) Letter() byte {
	switch f {
	case FaceU:
		return 'U'
	case FaceR:
		return 'R'
	case FaceF:
		return 'F'
	case FaceD:
		return 'D'
	case FaceL:
		return 'L'
	case FaceB:
		return 'B'
	default:
		return '.'
	}
}

func (f Face) String() string {
	return string(f.Letter())
}

// Material returns the sticker material used for the face.
func (f Face) Material() scene.Material {
	return scene.Material(f)
}

// faceFrame is the outward normal of a face plus the world directions of the
// columns and rows of its facelet grid, as seen looking at the face.
type faceFrame struct {
	normal, right, down [3]int
}

var faceFrames = map[Face]faceFrame{
	FaceU: {normal: [3]int{0, 1, 0}, right: [3]int{0, 0, 1}, down: [3]int{1, 0, 0}},
	FaceR: {normal: [3]int{0, 0, 1}, right: [3]int{-1, 0, 0}, down: [3]int{0, -1, 0}},
	FaceF: {normal: [3]int{1, 0, 0}, right: [3]int{0, 0, 1}, down: [3]int{0, -1, 0}},
	FaceD: {normal: [3]int{0, -1, 0}, right: [3]int{0, 0, 1}, down: [3]int{-1, 0, 0}},
	FaceL: {normal: [3]int{0, 0, -1}, right: [3]int{1, 0, 0}, down: [3]int{0, -1, 0}},
	FaceB: {normal: [3]int{-1, 0, 0}, right: [3]int{0, 0, -1}, down: [3]int{0, -1, 0}},
}

// FaceNormal returns the outward normal of f.
func FaceNormal(f Face) mgl64.Vec3 {
	n := faceFrames[f].normal
	return mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

// faceForNormal returns the face whose outward normal is n.
func faceForNormal(n [3]int) Face {
	for f, fr := range faceFrames {
		if fr.normal == n {
			return f
		}
	}
	return FaceNone
}

// stickers returns the materials a freshly built piece at c shows on each local face.
func stickers(c Coord, order int) [6]scene.Material {
	var m [6]scene.Material
	last := order - 1
	if c.X == last {
		m[0] = FaceF.Material()
	}
	if c.X == 0 {
		m[1] = FaceB.Material()
	}
	if c.Y == last {
		m[2] = FaceU.Material()
	}
	if c.Y == 0 {
		m[3] = FaceD.Material()
	}
	if c.Z == last {
		m[4] = FaceR.Material()
	}
	if c.Z == 0 {
		m[5] = FaceL.Material()
	}
	return m
}

func roundVec(v mgl64.Vec3) [3]int {
	return [3]int{int(math.Round(v[0])), int(math.Round(v[1])), int(math.Round(v[2]))}
}

func dot(a, b [3]int) int {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Facelets reads the sticker layout off the rendered pieces. Faces are written in
// U R F D L B order, each as order*order letters row by row. Every sticker shows
// the letter of the face it started on.
func (c *Cube) Facelets() string {
	n := c.order
	out := make([]byte, 6*n*n)
	for i := range out {
		out[i] = '.'
	}

	faceIndex := make(map[Face]int, 6)
	for i, f := range FaceOrder {
		faceIndex[f] = i
	}

	for _, slot := range c.grid.Slots() {
		u, ok := c.scene.Unit(slot.Handle)
		if !ok {
			continue
		}
		// doubled coordinates keep sticker centers on integers
		center := roundVec(u.AbsolutePosition().Mul(2))
		for i, mat := range u.Faces {
			if mat == 0 {
				continue
			}
			normal := roundVec(u.WorldNormal(i))
			face := faceForNormal(normal)
			if face == FaceNone {
				continue
			}
			pos := [3]int{center[0] + normal[0], center[1] + normal[1], center[2] + normal[2]}
			fr := faceFrames[face]
			col := (dot(pos, fr.right) + n - 1) / 2
			row := (dot(pos, fr.down) + n - 1) / 2
			if col < 0 || col >= n || row < 0 || row >= n {
				continue
			}
			out[faceIndex[face]*n*n+row*n+col] = Face(mat).Letter()
		}
	}
	return string(out)
}

// facesUniform reports whether every face in a facelet string shows one letter.
func facesUniform(facelets string, order int) bool {
	size := order * order
	for i := 0; i+size <= len(facelets); i += size {
		face := facelets[i : i+size]
		if strings.Count(face, face[:1]) != size {
			return false
		}
	}
	return true
}
