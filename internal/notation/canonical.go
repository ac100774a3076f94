package notation

import (
	"fmt"
	"strings"
)

// face describes the base (unsuffixed) meaning of a letter.
type face struct {
	axis      Axis
	position  int // 0 = first layer, 1 = middle, 2 = last layer
	clockwise bool
}

// baseFaces maps each letter to its unsuffixed move.
// Outer faces at layer 0 and the E and M slices turn negatively by default.
var baseFaces = map[byte]face{
	'F': {X, 2, true},
	'B': {X, 0, false},
	'S': {X, 1, true},
	'U': {Y, 2, true},
	'D': {Y, 0, false},
	'E': {Y, 1, false},
	'R': {Z, 2, true},
	'L': {Z, 0, false},
	'M': {Z, 1, false},
}

// MiddleLayer returns the layer index used for S, E and M on a puzzle of the given order.
func MiddleLayer(order int) int {
	return order / 2
}

// Letter returns the notation token for a move on a puzzle of the given order.
// Any layer strictly between the two outer faces is written as its slice letter.
// Slice letters parse back to MiddleLayer, so on order 4 and up a token names
// its move exactly only for the outer layers and the middle layer. Code that
// must reproduce an inner turn keeps the Move rather than its letter.
func Letter(m Move, order int) string {
	var letter string
	switch {
	case m.Layer == 0:
		switch m.Axis {
		case X:
			letter = "B"
		case Y:
			letter = "D"
		case Z:
			letter = "L"
		}
		if m.Clockwise {
			letter += "'"
		}
	case m.Layer == order-1:
		switch m.Axis {
		case X:
			letter = "F"
		case Y:
			letter = "U"
		case Z:
			letter = "R"
		}
		if !m.Clockwise {
			letter += "'"
		}
	default:
		switch m.Axis {
		case X:
			letter = "S"
		case Y:
			letter = "E'"
		case Z:
			letter = "M'"
		}
		if !m.Clockwise {
			if strings.HasSuffix(letter, "'") {
				letter = strings.TrimSuffix(letter, "'")
			} else {
				letter += "'"
			}
		}
	}
	return letter
}

// Parse parses a single token such as R, U', F2 or M into moves.
// A trailing 2 expands into two identical quarter turns.
func Parse(token string, order int) ([]Move, error) {
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidNotation)
	}

	base, ok := baseFaces[token[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, token)
	}

	var layer int
	switch base.position {
	case 0:
		layer = 0
	case 2:
		layer = order - 1
	default:
		if order < 3 {
			return nil, fmt.Errorf("%w: %q has no middle layer on order %d", ErrInvalidNotation, token, order)
		}
		layer = MiddleLayer(order)
	}

	move := Move{Axis: base.axis, Layer: layer, Clockwise: base.clockwise}

	switch suffix := token[1:]; suffix {
	case "":
		return []Move{move}, nil
	case "'", "`":
		return []Move{move.Inverse()}, nil
	case "2":
		return []Move{move, move}, nil
	case "2'", "2`":
		inv := move.Inverse()
		return []Move{inv, inv}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, token)
	}
}

// ParseSequence parses a whitespace separated sequence of tokens.
// Nothing is returned unless every token is valid.
func ParseSequence(s string, order int) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		parsed, err := Parse(part, order)
		if err != nil {
			return nil, err
		}
		moves = append(moves, parsed...)
	}

	return moves, nil
}

// FormatSequence formats moves as a space separated notation string.
func FormatSequence(moves []Move, order int) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = Letter(m, order)
	}

	return strings.Join(parts, " ")
}
