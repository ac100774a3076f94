package smartcube

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/go-gl/mathgl/mgl64"
)

// RotationEvent is one face turn reported by the cube.
type RotationEvent struct {
	FaceCode          byte
	CenterOrientation byte
	Clockwise         bool
	Color             string
}

// OrientationEvent is the cube's attitude with the faces it implies.
type OrientationEvent struct {
	Quat      mgl64.Quat
	UpFace    string
	FrontFace string
}

var colorNames = map[byte]string{
	0: "blue",
	1: "green",
	2: "white",
	3: "yellow",
	4: "red",
	5: "orange",
}

// ColorToFace maps center colors to face letters with white up and green front.
var ColorToFace = map[string]string{
	"white":  "U",
	"yellow": "D",
	"green":  "F",
	"blue":   "B",
	"red":    "R",
	"orange": "L",
}

// DecodeRotation decodes [face_dir] [center_orientation] byte pairs. Even face
// codes are clockwise.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	var events []RotationEvent
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		color, ok := colorNames[code/2]
		if !ok {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", code/2, code)
		}
		events = append(events, RotationEvent{
			FaceCode:          code,
			CenterOrientation: payload[i+1],
			Clockwise:         code%2 == 0,
			Color:             color,
		})
	}
	return events, nil
}

// Moves converts rotations into outer layer moves of an order x order puzzle.
func Moves(rotations []RotationEvent, order int) ([]notation.Move, error) {
	moves := make([]notation.Move, 0, len(rotations))
	for _, rot := range rotations {
		letter := ColorToFace[rot.Color]
		if !rot.Clockwise {
			letter += "'"
		}
		m, err := notation.Parse(letter, order)
		if err != nil {
			return nil, fmt.Errorf("failed to map rotation %s: %w", rot.Color, err)
		}
		moves = append(moves, m[0])
	}
	return moves, nil
}

// DecodeBattery returns the battery percentage.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("battery payload too short")
	}
	return int(payload[0]), nil
}

// DecodeOrientation decodes the ASCII "x#y#z#w" payload. Trailing bytes after
// the w value are ignored.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}

	var v [4]float64
	for i, p := range parts {
		if i == 3 {
			p = leadingNumber(p)
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid orientation component %d: %w", i, err)
		}
		v[i] = f
	}

	q := mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
	if q.Len() == 0 {
		return nil, fmt.Errorf("orientation quaternion is zero")
	}
	q = q.Normalize()

	return &OrientationEvent{
		Quat:      q,
		UpFace:    vectorToFace(q.Rotate(mgl64.Vec3{0, 1, 0})),
		FrontFace: vectorToFace(q.Rotate(mgl64.Vec3{0, 0, 1})),
	}, nil
}

func leadingNumber(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || (r >= '0' && r <= '9') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

// vectorToFace names the face a direction points at in the cube's own frame.
func vectorToFace(v mgl64.Vec3) string {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case ay >= ax && ay >= az:
		if v[1] > 0 {
			return "U"
		}
		return "D"
	case az >= ax:
		if v[2] > 0 {
			return "F"
		}
		return "B"
	case v[0] > 0:
		return "R"
	default:
		return "L"
	}
}
