package solver

import (
	"math"
	"sync"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/go-gl/mathgl/mgl64"
)

// faceFrame holds the outward normal of a face and the world directions of its
// facelet columns and rows. World axes: +X front, +Y up, +Z right.
type faceFrame struct {
	normal, right, down [3]int
}

var frames = [6]faceFrame{
	U: {normal: [3]int{0, 1, 0}, right: [3]int{0, 0, 1}, down: [3]int{1, 0, 0}},
	D: {normal: [3]int{0, -1, 0}, right: [3]int{0, 0, 1}, down: [3]int{-1, 0, 0}},
	F: {normal: [3]int{1, 0, 0}, right: [3]int{0, 0, 1}, down: [3]int{0, -1, 0}},
	B: {normal: [3]int{-1, 0, 0}, right: [3]int{0, 0, -1}, down: [3]int{0, -1, 0}},
	R: {normal: [3]int{0, 0, 1}, right: [3]int{-1, 0, 0}, down: [3]int{0, -1, 0}},
	L: {normal: [3]int{0, 0, -1}, right: [3]int{1, 0, 0}, down: [3]int{0, -1, 0}},
}

// sticker is a facelet in doubled world coordinates, so that every sticker
// center lies on integers for both odd and even orders.
type sticker struct {
	pos    [3]int
	normal [3]int
}

func stickerAt(order int, face Face, idx int) sticker {
	fr := frames[face]
	row, col := idx/order, idx%order
	var s sticker
	for i := 0; i < 3; i++ {
		s.pos[i] = fr.normal[i]*order + fr.right[i]*(2*col-(order-1)) + fr.down[i]*(2*row-(order-1))
	}
	s.normal = fr.normal
	return s
}

func dot(a, b [3]int) int {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func locate(order int, s sticker) (Face, int) {
	for _, f := range Faces {
		fr := frames[f]
		if fr.normal != s.normal {
			continue
		}
		col := (dot(s.pos, fr.right) + order - 1) / 2
		row := (dot(s.pos, fr.down) + order - 1) / 2
		return f, row*order + col
	}
	return U, -1
}

// quarterTurn returns the integer matrix of a quarter turn about axis.
// Clockwise is a positive rotation.
func quarterTurn(axis notation.Axis, clockwise bool) [3][3]int {
	angle := math.Pi / 2
	if !clockwise {
		angle = -angle
	}
	var m mgl64.Mat3
	switch axis {
	case notation.X:
		m = mgl64.Rotate3DX(angle)
	case notation.Y:
		m = mgl64.Rotate3DY(angle)
	default:
		m = mgl64.Rotate3DZ(angle)
	}
	var out [3][3]int
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = int(math.Round(m.At(r, c)))
		}
	}
	return out
}

func rotate(m [3][3]int, v [3]int) [3]int {
	var out [3]int
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2]
	}
	return out
}

type permKey struct {
	order     int
	axis      notation.Axis
	layer     int
	clockwise bool
}

// permutation maps a source sticker (face, index) to its destination.
type permutation [6][]int

var (
	permMu    sync.Mutex
	permCache = map[permKey]*permutation{}
)

func permutationFor(order int, m notation.Move) *permutation {
	key := permKey{order: order, axis: m.Axis, layer: m.Layer, clockwise: m.Clockwise}

	permMu.Lock()
	defer permMu.Unlock()
	if p, ok := permCache[key]; ok {
		return p
	}

	rot := quarterTurn(m.Axis, m.Clockwise)
	p := &permutation{}
	for _, face := range Faces {
		p[face] = make([]int, order*order)
		for idx := range p[face] {
			s := stickerAt(order, face, idx)
			// cell of the piece carrying this sticker
			piece := s.pos[m.Axis] - s.normal[m.Axis]
			if (piece+order-1)/2 != m.Layer {
				p[face][idx] = int(face)*order*order + idx
				continue
			}
			moved := sticker{pos: rotate(rot, s.pos), normal: rotate(rot, s.normal)}
			f, i := locate(order, moved)
			p[face][idx] = int(f)*order*order + i
		}
	}
	permCache[key] = p
	return p
}

// Apply applies a single layer move.
func (c *Cube) Apply(m notation.Move) {
	n := c.order
	p := permutationFor(n, m)
	var next [6][]Color
	for f := range next {
		next[f] = make([]Color, n*n)
	}
	for _, face := range Faces {
		for idx, dst := range p[face] {
			next[dst/(n*n)][dst%(n*n)] = c.Facelets[face][idx]
		}
	}
	c.Facelets = next
}

// ApplyMoves applies a sequence of moves.
func (c *Cube) ApplyMoves(moves []notation.Move) {
	for _, m := range moves {
		c.Apply(m)
	}
}

// Move applies a notation sequence such as "R U R' U'".
func (c *Cube) Move(letters string) error {
	moves, err := notation.ParseSequence(letters, c.order)
	if err != nil {
		return err
	}
	c.ApplyMoves(moves)
	return nil
}
