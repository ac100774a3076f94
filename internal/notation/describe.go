package notation

import "fmt"

// Describe converts a move into a plain description for status lines.
// Reference frame: Up on top, Front facing the viewer.
//
// Mapping:
//
//	R  -> "right layer up"      R' -> "right layer down"
//	L  -> "left layer down"     L' -> "left layer up"
//	U  -> "top layer left"      U' -> "top layer right"
//	D  -> "bottom layer right"  D' -> "bottom layer left"
//	F  -> "front clockwise"     F' -> "front anti-clockwise"
//	B  -> "back clockwise"      B' -> "back anti-clockwise"
//
// Inner layers are described by axis and index.
func Describe(m Move, order int) string {
	letter := Letter(m, order)
	prime := len(letter) > 1 && letter[len(letter)-1] == '\''

	switch letter[0] {
	case 'R':
		return pick(prime, "right layer up", "right layer down")
	case 'L':
		return pick(prime, "left layer down", "left layer up")
	case 'U':
		return pick(prime, "top layer left", "top layer right")
	case 'D':
		return pick(prime, "bottom layer right", "bottom layer left")
	case 'F':
		return pick(prime, "front clockwise", "front anti-clockwise")
	case 'B':
		return pick(prime, "back clockwise", "back anti-clockwise")
	}

	dir := "clockwise"
	if !m.Clockwise {
		dir = "anti-clockwise"
	}
	return fmt.Sprintf("%s slice %d %s", m.Axis, m.Layer, dir)
}

// DescribeSequence converts moves to descriptions.
func DescribeSequence(moves []Move, order int) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = Describe(m, order)
	}
	return result
}

func pick(prime bool, plain, inverted string) string {
	if prime {
		return inverted
	}
	return plain
}
