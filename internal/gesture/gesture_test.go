package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConicAngle(t *testing.T) {
	assert.InDelta(t, 0, ConicAngle(0, MaxPreviewAngle), 1e-12)
	assert.InDelta(t, MaxPreviewAngle/4, ConicAngle(1, MaxPreviewAngle), 1e-12)
	assert.InDelta(t, -MaxPreviewAngle/4, ConicAngle(-1, MaxPreviewAngle), 1e-12)
	assert.Equal(t, MaxPreviewAngle, ConicAngle(2, MaxPreviewAngle))
	assert.Equal(t, -MaxPreviewAngle, ConicAngle(-7, MaxPreviewAngle))
}

func TestAlignDirection(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, AlignDirection(mgl64.Vec3{1, 1, 0}))
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, AlignDirection(mgl64.Vec3{0.1, -2, 1}))
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, AlignDirection(mgl64.Vec3{0, 0.5, -0.6}))
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, AlignDirection(mgl64.Vec3{0, 1, 1}))
}

func TestFaceCenterOfBothTriangles(t *testing.T) {
	sc := scene.New()
	h := sc.CreateBox("p", mgl64.Vec3{1, 1, 0}, 1, [6]scene.Material{})
	for face := 0; face < 12; face++ {
		tri, err := sc.FaceVertices(h, face)
		require.NoError(t, err)
		want := mgl64.Vec3{1, 1, 0}.Add(tri.Normal().Mul(0.5))
		got := FaceCenter(tri)
		assert.InDeltaSlice(t, want[:], got[:], 1e-9, "face %d: want %v got %v", face, want, got)
	}
}

func TestPlaneEquation(t *testing.T) {
	tri := scene.Triangle{{1.5, 0, 0}, {1.5, 1, 0}, {1.5, 1, 1}}
	a, b, c, d := PlaneEquation(tri)
	assert.Equal(t, 1.0, a)
	assert.Equal(t, 0.0, b)
	assert.Equal(t, 0.0, c)
	assert.Equal(t, 1.5, d)
}

func TestClassify(t *testing.T) {
	x, y, z := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}
	cases := []struct {
		name      string
		drag      mgl64.Vec3
		normal    mgl64.Vec3
		center    mgl64.Vec3
		axis      notation.Axis
		layer     int
		clockwise bool
	}{
		{"front up", mgl64.Vec3{0, 1.5, 0}, x, mgl64.Vec3{1.5, 1, 0}, notation.Z, 1, true},
		{"front right", mgl64.Vec3{0, 0.2, 1.5}, x, mgl64.Vec3{1.5, 1, 0}, notation.Y, 2, false},
		{"back up", mgl64.Vec3{0, 1.5, 0}, x.Mul(-1), mgl64.Vec3{-1.5, 1, -1}, notation.Z, 0, false},
		{"top toward right", mgl64.Vec3{0, 0, 1.5}, y, mgl64.Vec3{0, 1.5, 1}, notation.X, 1, true},
		{"top toward front", mgl64.Vec3{1.5, 0, 0}, y, mgl64.Vec3{0, 1.5, 1}, notation.Z, 2, false},
		{"bottom toward right", mgl64.Vec3{0, 0, 1.5}, y.Mul(-1), mgl64.Vec3{-1, -1.5, 0}, notation.X, 0, false},
		{"right toward front", mgl64.Vec3{1.5, 0, 0}, z, mgl64.Vec3{1, 0, 1.5}, notation.Y, 1, true},
		{"right up", mgl64.Vec3{0, 1.5, 0}, z, mgl64.Vec3{1, 0, 1.5}, notation.X, 2, false},
		{"left up", mgl64.Vec3{0.3, 1.5, 0}, z.Mul(-1), mgl64.Vec3{1, 0, -1.5}, notation.X, 2, true},
	}
	for _, tc := range cases {
		cand, ok := Classify(tc.drag, tc.normal, tc.center, 3)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.axis, cand.Axis, tc.name)
		assert.Equal(t, tc.layer, cand.Layer, tc.name)
		assert.Equal(t, tc.clockwise, cand.Clockwise(), tc.name)
		assert.LessOrEqual(t, math.Abs(cand.Angle), MaxPreviewAngle, tc.name)
	}
}

func TestClassifyDegenerate(t *testing.T) {
	normal := mgl64.Vec3{1, 0, 0}
	center := mgl64.Vec3{1.5, 1, 0}

	_, ok := Classify(mgl64.Vec3{}, normal, center, 3)
	assert.False(t, ok, "zero drag")

	_, ok = Classify(mgl64.Vec3{2, 0, 0}, normal, center, 3)
	assert.False(t, ok, "drag along the normal has no in-plane part")

	_, ok = Classify(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 1, 0}, center, 3)
	assert.False(t, ok, "tilted normal")

	_, ok = Classify(mgl64.Vec3{0, 1.5, 0}, normal, mgl64.Vec3{1.5, 1, 0.5}, 3)
	assert.False(t, ok, "center on a piece edge")

	_, ok = Classify(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{}, center, 3)
	assert.False(t, ok, "zero normal")
}

func TestClassifyEvenOrder(t *testing.T) {
	cand, ok := Classify(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0.5, -0.5}, 2)
	require.True(t, ok)
	assert.Equal(t, notation.Z, cand.Axis)
	assert.Equal(t, 0, cand.Layer)
}

type rig struct {
	sc    *scene.Scene
	cube  *puzzle.Cube
	ctl   *Controller
	clock time.Time
}

func newRig(t *testing.T) *rig {
	t.Helper()
	logger, _ := test.NewNullLogger()
	r := &rig{sc: scene.New(), clock: time.Unix(1700000000, 0)}
	cube, err := puzzle.New(r.sc, puzzle.WithLogger(logger))
	require.NoError(t, err)
	r.cube = cube
	r.ctl = NewController(r.sc, cube, WithLogger(logger), WithClock(func() time.Time { return r.clock }))
	return r
}

func (r *rig) wait(d time.Duration) {
	r.clock = r.clock.Add(d)
}

// frontRay shoots at the front face from +X.
func frontRay(y, z float64) scene.Ray {
	return scene.Ray{Origin: mgl64.Vec3{10, y, z}, Direction: mgl64.Vec3{-1, 0, 0}}
}

func TestArmingBoundaryIsExclusive(t *testing.T) {
	r := newRig(t)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	require.True(t, r.ctl.Dragging())
	r.wait(20 * time.Millisecond)

	r.ctl.PointerMove(frontRay(2.0, 0))
	_, armed := r.ctl.Armed()
	assert.False(t, armed, "a drag of exactly 1 must not arm")

	r.ctl.PointerMove(frontRay(2.01, 0))
	cand, armed := r.ctl.Armed()
	require.True(t, armed, "a drag of 1.01 must arm")
	assert.Equal(t, notation.Z, cand.Axis)
	assert.Equal(t, 1, cand.Layer)
	assert.True(t, cand.Clockwise())

	axis, layer, previewing := r.cube.Previewing()
	assert.True(t, previewing)
	assert.Equal(t, notation.Z, axis)
	assert.Equal(t, 1, layer)

	r.wait(200 * time.Millisecond)
	m, ok := r.ctl.PointerUp()
	require.True(t, ok)
	assert.Equal(t, "M'", notation.Letter(m, 3))
	assert.True(t, r.cube.IsRotating())
	assert.False(t, r.ctl.Dragging())
	assert.Equal(t, 27, r.sc.Len(), "helper plane is freed")

	r.sc.Settle(1000)
	assert.False(t, r.cube.IsRotating())
	require.NoError(t, r.cube.Grid().Verify())
}

func TestShortPressDoesNotCommit(t *testing.T) {
	r := newRig(t)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	r.wait(20 * time.Millisecond)
	r.ctl.PointerMove(frontRay(2.5, 0))
	_, armed := r.ctl.Armed()
	require.True(t, armed)

	r.wait(50 * time.Millisecond)
	_, ok := r.ctl.PointerUp()
	assert.False(t, ok)
	assert.False(t, r.cube.IsRotating())
	_, _, previewing := r.cube.Previewing()
	assert.False(t, previewing)
}

func TestHelperPlaneWaitsBeforePicking(t *testing.T) {
	r := newRig(t)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	r.wait(5 * time.Millisecond)
	r.ctl.PointerMove(frontRay(2.5, 0))
	_, armed := r.ctl.Armed()
	assert.False(t, armed)

	r.wait(5 * time.Millisecond)
	r.ctl.PointerMove(frontRay(2.5, 0))
	_, armed = r.ctl.Armed()
	assert.True(t, armed)
}

func TestInputFrozenWhileRotating(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.cube.RotateByLetters("U"))
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	assert.False(t, r.ctl.Dragging())

	r.sc.Settle(100)
	r.ctl.SetFrozen(true)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	assert.False(t, r.ctl.Dragging())

	r.ctl.SetFrozen(false)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	assert.True(t, r.ctl.Dragging())
	r.ctl.Cancel()
	assert.False(t, r.ctl.Dragging())
}

func TestReleaseWhileRotatingDropsDrag(t *testing.T) {
	r := newRig(t)
	r.ctl.PointerDown(frontRay(1.1, 0.2))
	r.wait(20 * time.Millisecond)
	r.ctl.PointerMove(frontRay(3.5, 0))
	_, armed := r.ctl.Armed()
	require.True(t, armed)
	require.Equal(t, 28, r.sc.Len())

	require.NoError(t, r.cube.RotateByLetters("U"))
	r.wait(200 * time.Millisecond)
	_, ok := r.ctl.PointerUp()
	assert.False(t, ok, "nothing commits while another rotation runs")
	assert.False(t, r.ctl.Dragging())
	assert.Equal(t, 27, r.sc.Len(), "helper plane is freed")
	_, _, previewing := r.cube.Previewing()
	assert.False(t, previewing)

	r.sc.Settle(1000)
	require.NoError(t, r.cube.Grid().Verify())
	for _, s := range r.cube.Grid().Slots() {
		assert.Equal(t, mgl64.Vec3{}, r.sc.MustUnit(s.Handle).Rotation)
	}
	want := "UUUUUUUUU" + "BBBRRRRRR" + "RRRFFFFFF" + "DDDDDDDDD" + "FFFLLLLLL" + "LLLBBBBBB"
	assert.Equal(t, want, r.cube.Facelets())
}

func TestMissDoesNotCreatePlane(t *testing.T) {
	r := newRig(t)
	r.ctl.PointerDown(scene.Ray{Origin: mgl64.Vec3{10, 10, 10}, Direction: mgl64.Vec3{1, 0, 0}})
	assert.False(t, r.ctl.Dragging())
	_, ok := r.ctl.PointerUp()
	assert.False(t, ok)
}
