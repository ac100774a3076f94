package solver

import (
	"strings"
	"testing"

	"github.com/SeamusWaldron/cubescene/internal/notation"
)

func newSolver(t *testing.T, order int, opts ...Option) *HistorySolver {
	t.Helper()
	s, err := NewHistorySolver(order, opts...)
	if err != nil {
		t.Fatalf("NewHistorySolver failed: %v", err)
	}
	return s
}

func TestScrambleAndSolve(t *testing.T) {
	s := newSolver(t, 3, WithSeed(42))
	scramble, err := s.Scramble()
	if err != nil {
		t.Fatalf("Scramble failed: %v", err)
	}
	if got := len(strings.Fields(scramble)); got != DefaultScrambleLength {
		t.Errorf("Scramble should have %d turns, got %d", DefaultScrambleLength, got)
	}
	if err := s.Move(scramble); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if s.IsSolved() {
		t.Fatal("Cube should be scrambled")
	}

	answer, err := s.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if err := s.Move(answer); err != nil {
		t.Fatalf("Move(answer) failed: %v", err)
	}
	if !s.IsSolved() {
		t.Errorf("Cube should be solved after answer %q", answer)
		t.Log(s.Cube().String())
	}
}

func TestScrambleIsReproducible(t *testing.T) {
	a, _ := newSolver(t, 3, WithSeed(7)).Scramble()
	b, _ := newSolver(t, 3, WithSeed(7)).Scramble()
	if a != b {
		t.Errorf("Same seed should give the same scramble: %q vs %q", a, b)
	}
}

func TestScrambleAvoidsRepeatedAxis(t *testing.T) {
	s := newSolver(t, 4, WithSeed(3), WithScrambleLength(200))
	scramble, _ := s.Scramble()
	moves, err := notation.ParseSequence(scramble, 4)
	if err != nil {
		t.Fatalf("Scramble should parse: %v", err)
	}
	// half turns expand into two identical moves
	prev := moves[0]
	for _, m := range moves[1:] {
		if m.Axis == prev.Axis && m != prev {
			t.Fatalf("Consecutive turns share axis %s in %q", m.Axis, scramble)
		}
		prev = m
	}
}

func TestSolveWhenSolvedIsEmpty(t *testing.T) {
	s := newSolver(t, 3)
	if err := s.Move("R R'"); err != nil {
		t.Fatal(err)
	}
	answer, err := s.Solve()
	if err != nil || answer != "" {
		t.Errorf("Solved cube should have an empty answer, got %q, %v", answer, err)
	}
}

func TestSolveMovesTrackInnerLayers(t *testing.T) {
	s := newSolver(t, 5)
	s.ApplyMoves(
		notation.Move{Axis: notation.X, Layer: 1, Clockwise: true},
		notation.Move{Axis: notation.Y, Layer: 3, Clockwise: false},
	)
	moves, err := s.SolveMoves()
	if err != nil {
		t.Fatal(err)
	}
	want := []notation.Move{
		{Axis: notation.Y, Layer: 3, Clockwise: true},
		{Axis: notation.X, Layer: 1, Clockwise: false},
	}
	if len(moves) != len(want) || moves[0] != want[0] || moves[1] != want[1] {
		t.Errorf("SolveMoves = %v, want %v", moves, want)
	}
	s.ApplyMoves(moves...)
	if !s.IsSolved() {
		t.Error("Applying SolveMoves should solve the cube")
	}
}

func TestReset(t *testing.T) {
	s := newSolver(t, 3)
	_ = s.Move("F U")
	s.Reset()
	if !s.IsSolved() || len(s.History()) != 0 {
		t.Error("Reset should restore a solved cube with no history")
	}
}

func TestInvalidOrder(t *testing.T) {
	if _, err := NewHistorySolver(1); err == nil {
		t.Error("Order 1 should be rejected")
	}
}

func TestMergeMoves(t *testing.T) {
	r := notation.Move{Axis: notation.Z, Layer: 2, Clockwise: true}
	u := notation.Move{Axis: notation.Y, Layer: 2, Clockwise: true}

	cases := []struct {
		name string
		in   []notation.Move
		want string
	}{
		{"cancel", []notation.Move{r, r.Inverse()}, ""},
		{"nested cancel", []notation.Move{r, u, u.Inverse(), r.Inverse()}, ""},
		{"three quarters", []notation.Move{r, r, r}, "R'"},
		{"half", []notation.Move{r.Inverse(), r.Inverse()}, "R2"},
		{"four", []notation.Move{u, u, u, u}, ""},
		{"keep", []notation.Move{r, u}, "R U"},
	}
	for _, tc := range cases {
		got := FormatMoves(MergeMoves(tc.in), 3)
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
