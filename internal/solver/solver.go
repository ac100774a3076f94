package solver

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubescene/internal/notation"
)

// DefaultScrambleLength is the number of turns in a generated scramble.
const DefaultScrambleLength = 20

// ErrInvalidOrder is returned for orders below 2.
var ErrInvalidOrder = errors.New("solver: order must be at least 2")

// Option configures a HistorySolver.
type Option func(*HistorySolver)

// WithSeed makes scrambles reproducible.
func WithSeed(seed int64) Option {
	return func(s *HistorySolver) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithScrambleLength sets the number of turns in a scramble.
func WithScrambleLength(n int) Option {
	return func(s *HistorySolver) {
		if n > 0 {
			s.scrambleLength = n
		}
	}
}

// HistorySolver tracks applied moves on a facelet model and solves by undoing
// them. Its answers are not optimal but always correct.
type HistorySolver struct {
	mu             sync.Mutex
	cube           *Cube
	history        []notation.Move
	rng            *rand.Rand
	scrambleLength int
}

// NewHistorySolver creates a solver for a solved cube of the given order.
func NewHistorySolver(order int, opts ...Option) (*HistorySolver, error) {
	if order < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	s := &HistorySolver{
		cube:           New(order),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		scrambleLength: DefaultScrambleLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Move records a move given in letter notation.
func (s *HistorySolver) Move(letter string) error {
	moves, err := notation.ParseSequence(letter, s.cube.Order())
	if err != nil {
		return fmt.Errorf("failed to track move: %w", err)
	}
	s.ApplyMoves(moves...)
	return nil
}

// ApplyMoves records moves directly. Inner layers that share a slice letter
// are tracked exactly.
func (s *HistorySolver) ApplyMoves(moves ...notation.Move) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range moves {
		m.Speed = 0
		s.cube.Apply(m)
		s.history = append(s.history, m)
	}
}

// IsSolved reports whether every face shows one color.
func (s *HistorySolver) IsSolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cube.IsSolved()
}

// SolveMoves returns the moves that undo the history, simplified.
func (s *HistorySolver) SolveMoves() ([]notation.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cube.IsSolved() {
		return nil, nil
	}
	undo := make([]notation.Move, len(s.history))
	for i, m := range s.history {
		undo[len(s.history)-1-i] = m.Inverse()
	}
	return MergeMoves(undo), nil
}

// Solve returns the undo sequence as letters.
func (s *HistorySolver) Solve() (string, error) {
	moves, err := s.SolveMoves()
	if err != nil {
		return "", err
	}
	return FormatMoves(moves, s.cube.Order()), nil
}

// Scramble returns a random sequence of outer face turns. Consecutive turns
// never share an axis.
func (s *HistorySolver) Scramble() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.cube.Order()
	letters := make([]string, 0, s.scrambleLength)
	last := notation.Axis(-1)
	for len(letters) < s.scrambleLength {
		axis := notation.Axes[s.rng.Intn(3)]
		if axis == last {
			continue
		}
		last = axis
		layer := 0
		if s.rng.Intn(2) == 1 {
			layer = order - 1
		}
		m := notation.Move{Axis: axis, Layer: layer, Clockwise: s.rng.Intn(2) == 1}
		letter := notation.Letter(m, order)
		if s.rng.Intn(3) == 0 {
			letter = strings.TrimSuffix(letter, "'") + "2"
		}
		letters = append(letters, letter)
	}
	return strings.Join(letters, " "), nil
}

// Reset returns to a solved cube with no history.
func (s *HistorySolver) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cube = New(s.cube.Order())
	s.history = nil
}

// History returns the tracked moves.
func (s *HistorySolver) History() []notation.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notation.Move(nil), s.history...)
}

// Cube returns a copy of the tracked facelet model.
func (s *HistorySolver) Cube() *Cube {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cube.Clone()
}

// MergeMoves folds consecutive turns of the same layer and drops those that
// cancel out. Half turns come back as two clockwise quarter turns.
func MergeMoves(moves []notation.Move) []notation.Move {
	type run struct {
		move     notation.Move
		quarters int
	}
	var stack []run
	for _, m := range moves {
		q := m.Quarter()
		if n := len(stack); n > 0 && stack[n-1].move.SameLayer(m) {
			stack[n-1].quarters = ((stack[n-1].quarters+q)%4 + 4) % 4
			if stack[n-1].quarters == 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, run{move: m, quarters: (q + 4) % 4})
	}

	out := make([]notation.Move, 0, len(stack))
	for _, r := range stack {
		m := r.move
		switch r.quarters {
		case 1:
			m.Clockwise = true
			out = append(out, m)
		case 2:
			m.Clockwise = true
			out = append(out, m, m)
		case 3:
			m.Clockwise = false
			out = append(out, m)
		}
	}
	return out
}

// FormatMoves writes moves as letters, folding repeated quarter turns into
// half turns.
func FormatMoves(moves []notation.Move, order int) string {
	parts := make([]string, 0, len(moves))
	for i := 0; i < len(moves); i++ {
		letter := notation.Letter(moves[i], order)
		if i+1 < len(moves) && moves[i+1] == moves[i] {
			letter = strings.TrimSuffix(letter, "'") + "2"
			i++
		}
		parts = append(parts, letter)
	}
	return strings.Join(parts, " ")
}
