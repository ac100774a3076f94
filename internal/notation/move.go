// Package notation converts between layer moves and standard cube letters.
package notation

import (
	"errors"
	"fmt"
)

// ErrInvalidNotation is returned when a token is not a recognised face or slice letter.
var ErrInvalidNotation = errors.New("notation: invalid move notation")

// Axis is one of the three rotation axes of the puzzle.
type Axis int

const (
	X Axis = iota // Back (0) to Front (N-1)
	Y             // Down (0) to Up (N-1)
	Z             // Left (0) to Right (N-1)
)

// Axes lists the axes in index order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "?"
	}
}

// Move rotates every piece whose coordinate along Axis equals Layer by 90 degrees.
// Clockwise means a positive quarter turn about the axis.
type Move struct {
	Axis      Axis
	Layer     int
	Clockwise bool
	Speed     int // Animation frames; 0 uses the engine default
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	m.Clockwise = !m.Clockwise
	return m
}

// WithSpeed returns a copy of the move animated over the given frame count.
func (m Move) WithSpeed(frames int) Move {
	m.Speed = frames
	return m
}

// SameLayer reports whether both moves turn the same layer.
func (m Move) SameLayer(other Move) bool {
	return m.Axis == other.Axis && m.Layer == other.Layer
}

// Quarter returns +1 for a clockwise move and -1 otherwise.
func (m Move) Quarter() int {
	if m.Clockwise {
		return 1
	}
	return -1
}

func (m Move) String() string {
	dir := "cw"
	if !m.Clockwise {
		dir = "ccw"
	}
	return fmt.Sprintf("%s%d %s", m.Axis, m.Layer, dir)
}
