package puzzle_test

import (
	"testing"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/SeamusWaldron/cubescene/internal/solver"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolvedPair(t *testing.T, order int) (*puzzle.Cube, *solver.HistorySolver, *scene.Scene) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s, err := solver.NewHistorySolver(order, solver.WithSeed(11))
	require.NoError(t, err)
	sc := scene.New()
	c, err := puzzle.New(sc, puzzle.WithOrder(order), puzzle.WithSolver(s), puzzle.WithLogger(logger))
	require.NoError(t, err)
	return c, s, sc
}

func TestRenderedStateMatchesSolverModel(t *testing.T) {
	for _, order := range []int{2, 3, 4} {
		c, s, sc := newSolvedPair(t, order)

		_, err := c.Scramble()
		require.NoError(t, err)
		require.NoError(t, c.RotatePieces(notation.Y, 1, true, 5))
		sc.Settle(100000)

		assert.Equal(t, s.Cube().FaceletString(), c.Facelets(), "order %d", order)
		assert.False(t, c.IsSolved())
	}
}

func TestSolvePlaysBackToSolved(t *testing.T) {
	c, s, sc := newSolvedPair(t, 4)
	_, err := c.Scramble()
	require.NoError(t, err)
	require.NoError(t, c.RotatePieces(notation.X, 1, false, 0))
	sc.Settle(100000)
	require.False(t, c.IsSolved())

	answer, err := c.Solve()
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	sc.Settle(100000)

	assert.True(t, c.IsSolved())
	assert.True(t, s.IsSolved())
	require.NoError(t, c.Grid().Verify())
}

func TestAnswerMatchesSolver(t *testing.T) {
	c, s, sc := newSolvedPair(t, 3)
	require.NoError(t, c.RotateByLetters("R U"))
	sc.Settle(1000)

	answer, err := c.Answer()
	require.NoError(t, err)
	assert.Equal(t, "U' R'", answer)
	assert.Len(t, s.History(), 2)
}

func TestSolvedCheckStableAcrossScrambleAndSolve(t *testing.T) {
	c, s, sc := newSolvedPair(t, 3)

	_, err := c.Scramble()
	require.NoError(t, err)
	sc.Settle(100000)
	require.False(t, c.IsSolved())
	assert.False(t, c.IsSolved())
	assert.False(t, s.IsSolved())

	_, err = c.Solve()
	require.NoError(t, err)
	sc.Settle(100000)
	require.True(t, c.IsSolved())
	assert.True(t, c.IsSolved())
	assert.Equal(t, s.Cube().FaceletString(), c.Facelets())
}
