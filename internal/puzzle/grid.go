package puzzle

import (
	"fmt"
	"math"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Coord is a grid cell. Every component is in [0, order).
type Coord struct {
	X, Y, Z int
}

// Get returns the component along axis.
func (c Coord) Get(axis notation.Axis) int {
	switch axis {
	case notation.X:
		return c.X
	case notation.Y:
		return c.Y
	default:
		return c.Z
	}
}

// String returns the coordinate as (x,y,z).
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Slot pairs a cell with the unit occupying it.
type Slot struct {
	Coord  Coord
	Handle scene.Handle
}

// Offset returns the distance between a cell index and its world coordinate.
func Offset(order int) float64 {
	return float64(order)/2 - 0.5
}

// NormalizeAxisValue rounds a world coordinate to the nearest half unit.
func NormalizeAxisValue(v float64) float64 {
	return math.Round(v*2) / 2
}

// Grid is the cell table mapping every coordinate of an order^3 lattice to the
// unit currently resting there.
type Grid struct {
	order int
	cells []scene.Handle
}

// NewGrid creates an empty grid.
func NewGrid(order int) *Grid {
	return &Grid{
		order: order,
		cells: make([]scene.Handle, order*order*order),
	}
}

// Order returns the edge length in cells.
func (g *Grid) Order() int {
	return g.order
}

func (g *Grid) index(c Coord) int {
	return (c.X*g.order+c.Y)*g.order + c.Z
}

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c Coord) bool {
	in := func(v int) bool { return v >= 0 && v < g.order }
	return in(c.X) && in(c.Y) && in(c.Z)
}

// Cell returns the unit at c.
func (g *Grid) Cell(c Coord) scene.Handle {
	return g.cells[g.index(c)]
}

// Set places h at c.
func (g *Grid) Set(c Coord, h scene.Handle) {
	g.cells[g.index(c)] = h
}

// Slots returns every occupied cell in x, y, z order.
func (g *Grid) Slots() []Slot {
	slots := make([]Slot, 0, len(g.cells))
	g.each(func(c Coord) {
		if h := g.Cell(c); h != 0 {
			slots = append(slots, Slot{Coord: c, Handle: h})
		}
	})
	return slots
}

// Layer returns the order^2 slots whose coordinate along axis equals layer.
func (g *Grid) Layer(axis notation.Axis, layer int) []Slot {
	slots := make([]Slot, 0, g.order*g.order)
	g.each(func(c Coord) {
		if c.Get(axis) == layer {
			slots = append(slots, Slot{Coord: c, Handle: g.Cell(c)})
		}
	})
	return slots
}

// Clear empties the grid and returns the handles it held.
func (g *Grid) Clear() []scene.Handle {
	var old []scene.Handle
	for i, h := range g.cells {
		if h != 0 {
			old = append(old, h)
		}
		g.cells[i] = 0
	}
	return old
}

// Reseat writes moved units into their new cells. The destination cells must be
// exactly the cells the units came from, with no two units sharing a cell.
func (g *Grid) Reseat(from []Slot, to []Slot) error {
	if len(from) != len(to) {
		return fmt.Errorf("%w: reseating %d units into %d cells", ErrGridInvariant, len(from), len(to))
	}
	vacated := make(map[Coord]bool, len(from))
	for _, s := range from {
		vacated[s.Coord] = true
	}
	seen := make(map[Coord]bool, len(to))
	for _, s := range to {
		if !g.Contains(s.Coord) {
			return fmt.Errorf("%w: cell %s outside order %d", ErrGridInvariant, s.Coord, g.order)
		}
		if !vacated[s.Coord] {
			return fmt.Errorf("%w: cell %s is not part of the turning layer", ErrGridInvariant, s.Coord)
		}
		if seen[s.Coord] {
			return fmt.Errorf("%w: two units resolved to cell %s", ErrGridInvariant, s.Coord)
		}
		seen[s.Coord] = true
	}
	for _, s := range to {
		g.Set(s.Coord, s.Handle)
	}
	return nil
}

// Verify checks that every cell holds a unit and no unit appears twice.
func (g *Grid) Verify() error {
	seen := make(map[scene.Handle]Coord, len(g.cells))
	var err error
	g.each(func(c Coord) {
		if err != nil {
			return
		}
		h := g.Cell(c)
		if h == 0 {
			err = fmt.Errorf("%w: cell %s is empty", ErrGridInvariant, c)
			return
		}
		if prev, dup := seen[h]; dup {
			err = fmt.Errorf("%w: unit %d in cells %s and %s", ErrGridInvariant, h, prev, c)
			return
		}
		seen[h] = c
	})
	return err
}

// Position returns the world center of cell c.
func (g *Grid) Position(c Coord) mgl64.Vec3 {
	off := Offset(g.order)
	return mgl64.Vec3{float64(c.X) - off, float64(c.Y) - off, float64(c.Z) - off}
}

// CoordOf converts a world position into the cell it rounds to.
func (g *Grid) CoordOf(p mgl64.Vec3) (Coord, error) {
	off := Offset(g.order)
	idx := func(v float64) int { return int(math.Round(NormalizeAxisValue(v) + off)) }
	c := Coord{idx(p[0]), idx(p[1]), idx(p[2])}
	if !g.Contains(c) {
		return c, fmt.Errorf("%w: position %v resolves to %s", ErrGridInvariant, p, c)
	}
	return c, nil
}

func (g *Grid) each(fn func(Coord)) {
	for x := 0; x < g.order; x++ {
		for y := 0; y < g.order; y++ {
			for z := 0; z < g.order; z++ {
				fn(Coord{x, y, z})
			}
		}
	}
}
