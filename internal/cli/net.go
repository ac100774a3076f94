package cli

import (
	"fmt"
	"strings"
)

// netFaces is the facelet string order.
const netFaces = "URFDLB"

// netRows lays a facelet string out as an unfolded net:
//
//	  U
//	L F R B
//	  D
func netRows(facelets string, order int, cell func(byte) string) ([]string, error) {
	size := order * order
	if len(facelets) != 6*size {
		return nil, fmt.Errorf("facelet string has %d stickers, want %d", len(facelets), 6*size)
	}

	row := func(face byte, r int) string {
		start := strings.IndexByte(netFaces, face)*size + r*order
		var b strings.Builder
		for i := 0; i < order; i++ {
			b.WriteString(cell(facelets[start+i]))
		}
		return b.String()
	}
	pad := strings.Repeat(cell(0), order)

	rows := make([]string, 0, 3*order)
	for r := 0; r < order; r++ {
		rows = append(rows, pad+row('U', r))
	}
	for r := 0; r < order; r++ {
		rows = append(rows, row('L', r)+row('F', r)+row('R', r)+row('B', r))
	}
	for r := 0; r < order; r++ {
		rows = append(rows, pad+row('D', r))
	}
	return rows, nil
}

// renderNet draws the net with colored stickers.
func renderNet(facelets string, order int) string {
	rows, err := netRows(facelets, order, colorCell)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return strings.Join(rows, "\n")
}
