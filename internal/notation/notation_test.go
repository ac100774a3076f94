package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterTable(t *testing.T) {
	cases := []struct {
		move Move
		want string
	}{
		{Move{Axis: X, Layer: 0, Clockwise: true}, "B'"},
		{Move{Axis: X, Layer: 0, Clockwise: false}, "B"},
		{Move{Axis: X, Layer: 2, Clockwise: true}, "F"},
		{Move{Axis: X, Layer: 2, Clockwise: false}, "F'"},
		{Move{Axis: X, Layer: 1, Clockwise: true}, "S"},
		{Move{Axis: X, Layer: 1, Clockwise: false}, "S'"},
		{Move{Axis: Y, Layer: 0, Clockwise: true}, "D'"},
		{Move{Axis: Y, Layer: 2, Clockwise: true}, "U"},
		{Move{Axis: Y, Layer: 2, Clockwise: false}, "U'"},
		{Move{Axis: Y, Layer: 1, Clockwise: true}, "E'"},
		{Move{Axis: Y, Layer: 1, Clockwise: false}, "E"},
		{Move{Axis: Z, Layer: 0, Clockwise: false}, "L"},
		{Move{Axis: Z, Layer: 2, Clockwise: true}, "R"},
		{Move{Axis: Z, Layer: 1, Clockwise: true}, "M'"},
		{Move{Axis: Z, Layer: 1, Clockwise: false}, "M"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Letter(tc.move, 3), "letter for %v", tc.move)
	}
}

func TestMoveLetterRoundTrip(t *testing.T) {
	for _, order := range []int{2, 3, 4, 5} {
		for _, axis := range Axes {
			for layer := 0; layer < order; layer++ {
				if layer != 0 && layer != order-1 && layer != MiddleLayer(order) {
					continue // inner layers other than the middle share the slice letter
				}
				for _, cw := range []bool{true, false} {
					m := Move{Axis: axis, Layer: layer, Clockwise: cw}
					moves, err := Parse(Letter(m, order), order)
					require.NoError(t, err)
					require.Len(t, moves, 1)
					assert.Equal(t, m, moves[0], "order %d", order)
				}
			}
		}
	}
}

func TestInnerLayerLetterIsLossy(t *testing.T) {
	m := Move{Axis: X, Layer: 1, Clockwise: true}
	assert.Equal(t, "S", Letter(m, 4))

	moves, err := Parse(Letter(m, 4), 4)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, 2, moves[0].Layer, "slice letters name the middle layer")
	assert.NotEqual(t, m, moves[0])
}

func TestLetterMoveRoundTrip(t *testing.T) {
	for _, token := range []string{"R", "R'", "L", "L'", "U", "U'", "D", "D'", "F", "F'", "B", "B'", "M", "M'", "E", "E'", "S", "S'"} {
		moves, err := Parse(token, 3)
		require.NoError(t, err, token)
		require.Len(t, moves, 1)
		assert.Equal(t, token, Letter(moves[0], 3))
	}
}

func TestDoubleTurnExpands(t *testing.T) {
	moves, err := Parse("R2", 3)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, moves[0], moves[1])
	assert.Equal(t, "R", Letter(moves[0], 3))
	assert.Equal(t, "R", Letter(moves[1], 3))

	moves, err = Parse("U2'", 3)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, "U'", Letter(moves[0], 3))
}

func TestBacktickPrime(t *testing.T) {
	moves, err := Parse("F`", 3)
	require.NoError(t, err)
	assert.False(t, moves[0].Clockwise)
}

func TestParseInvalid(t *testing.T) {
	for _, token := range []string{"", "X", "r", "R3", "Q'", "U''"} {
		_, err := Parse(token, 3)
		assert.ErrorIs(t, err, ErrInvalidNotation, "token %q", token)
	}

	_, err := Parse("M", 2)
	assert.ErrorIs(t, err, ErrInvalidNotation)
}

func TestParseSequenceAllOrNothing(t *testing.T) {
	moves, err := ParseSequence("R U R' U'", 3)
	require.NoError(t, err)
	assert.Len(t, moves, 4)

	moves, err = ParseSequence("R U X U'", 3)
	assert.ErrorIs(t, err, ErrInvalidNotation)
	assert.Nil(t, moves)
}

func TestFormatSequence(t *testing.T) {
	moves, err := ParseSequence("F2 L'  D", 3)
	require.NoError(t, err)
	assert.Equal(t, "F F L' D", FormatSequence(moves, 3))
	assert.Equal(t, "", FormatSequence(nil, 3))
}

func TestInverse(t *testing.T) {
	m := Move{Axis: Z, Layer: 2, Clockwise: true, Speed: 10}
	inv := m.Inverse()
	assert.False(t, inv.Clockwise)
	assert.Equal(t, m, inv.Inverse())
	assert.Equal(t, "R'", Letter(inv, 3))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "right layer up", Describe(Move{Axis: Z, Layer: 2, Clockwise: true}, 3))
	assert.Equal(t, "top layer right", Describe(Move{Axis: Y, Layer: 2, Clockwise: false}, 3))
	assert.Equal(t, "y slice 1 clockwise", Describe(Move{Axis: Y, Layer: 1, Clockwise: true}, 3))
}
