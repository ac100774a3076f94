// Package solver provides an NxN facelet model of the puzzle, a history based
// solver and a random scrambler.
package solver

import (
	"fmt"
	"strings"
)

// Color represents a face color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// Face represents a cube face.
type Face int

const (
	U Face = 0 // Up (White)
	D Face = 1 // Down (Yellow)
	F Face = 2 // Front (Green)
	B Face = 3 // Back (Blue)
	R Face = 4 // Right (Red)
	L Face = 5 // Left (Orange)
)

func (f Face) String() string {
	switch f {
	case U:
		return "U"
	case D:
		return "D"
	case F:
		return "F"
	case B:
		return "B"
	case R:
		return "R"
	case L:
		return "L"
	default:
		return "?"
	}
}

// Faces lists faces in index order.
var Faces = [6]Face{U, D, F, B, R, L}

// faceletOrder is the face order of a facelet string.
var faceletOrder = [6]Face{U, R, F, D, L, B}

// faceToSolvedColor returns the color of a face when solved.
func faceToSolvedColor(f Face) Color {
	switch f {
	case U:
		return White
	case D:
		return Yellow
	case F:
		return Green
	case B:
		return Blue
	case R:
		return Red
	case L:
		return Orange
	default:
		return White
	}
}

// homeFace returns the face a color starts on.
func homeFace(c Color) Face {
	for _, f := range Faces {
		if faceToSolvedColor(f) == c {
			return f
		}
	}
	return U
}

// Cube is an order x order x order cube.
// Each face has order*order facelets indexed row by row, as seen looking at
// the face with the conventional net orientation.
type Cube struct {
	order int

	// Facelets[face][row*order+col] = color
	Facelets [6][]Color
}

// New creates a solved cube: White on top, Green in front.
func New(order int) *Cube {
	c := &Cube{order: order}
	for _, face := range Faces {
		color := faceToSolvedColor(face)
		c.Facelets[face] = make([]Color, order*order)
		for i := range c.Facelets[face] {
			c.Facelets[face][i] = color
		}
	}
	return c
}

// Order returns the edge length.
func (c *Cube) Order() int {
	return c.order
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := &Cube{order: c.order}
	for f := range c.Facelets {
		clone.Facelets[f] = append([]Color(nil), c.Facelets[f]...)
	}
	return clone
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	for _, face := range Faces {
		first := c.Facelets[face][0]
		for _, color := range c.Facelets[face] {
			if color != first {
				return false
			}
		}
	}
	return true
}

// SolvedFaces counts the faces showing a single color.
func (c *Cube) SolvedFaces() int {
	n := 0
	for _, face := range Faces {
		uniform := true
		for _, color := range c.Facelets[face] {
			if color != c.Facelets[face][0] {
				uniform = false
				break
			}
		}
		if uniform {
			n++
		}
	}
	return n
}

// FaceletString encodes the cube as face letters in U R F D L B order. Each
// sticker is written as the letter of the face its color belongs to.
func (c *Cube) FaceletString() string {
	var b strings.Builder
	b.Grow(6 * c.order * c.order)
	for _, face := range faceletOrder {
		for _, color := range c.Facelets[face] {
			b.WriteString(homeFace(color).String())
		}
	}
	return b.String()
}

// String returns a text net of the cube.
func (c *Cube) String() string {
	n := c.order
	indent := strings.Repeat("  ", n)
	var b strings.Builder

	writeRow := func(face Face, row int) {
		for col := 0; col < n; col++ {
			b.WriteString(c.Facelets[face][row*n+col].String())
			b.WriteString(" ")
		}
	}

	for row := 0; row < n; row++ {
		b.WriteString(indent)
		writeRow(U, row)
		b.WriteString("\n")
	}
	for row := 0; row < n; row++ {
		for _, face := range []Face{L, F, R, B} {
			writeRow(face, row)
		}
		b.WriteString("\n")
	}
	for row := 0; row < n; row++ {
		b.WriteString(indent)
		writeRow(D, row)
		b.WriteString("\n")
	}
	return b.String()
}

// Debug returns a simple debug string.
func (c *Cube) Debug() string {
	return fmt.Sprintf("Order: %d Solved: %v", c.order, c.IsSolved())
}
