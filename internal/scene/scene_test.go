package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}

func TestCreateAndDestroy(t *testing.T) {
	s := New()
	a := s.CreateBox("a", mgl64.Vec3{1, 0, 0}, 1, [6]Material{})
	b := s.CreatePlane("p", mgl64.Vec3{}, mgl64.Vec3{0, 2, 0}, 50)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())

	p := s.MustUnit(b)
	vecNear(t, mgl64.Vec3{0, 1, 0}, p.Normal)

	s.Destroy(a)
	_, ok := s.Unit(a)
	assert.False(t, ok)
	s.Destroy(a)
	assert.Equal(t, 1, s.Len())
}

func TestTransientRotationAboutOrigin(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{1, 0, 0}, 1, [6]Material{}))

	u.Rotation[1] = math.Pi / 2
	vecNear(t, mgl64.Vec3{0, 0, -1}, u.AbsolutePosition())

	u.Rotation = mgl64.Vec3{0, 0, math.Pi / 2}
	vecNear(t, mgl64.Vec3{0, 1, 0}, u.AbsolutePosition())
}

func TestBakeSnapsOrientation(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{1, 1, 1}, 1, [6]Material{}))

	for i := 0; i < 4; i++ {
		u.Rotation[0] = math.Pi/2 + 1e-12
		u.Bake(u.AbsolutePosition())
	}

	assert.Equal(t, mgl64.Vec3{}, u.Rotation)
	vecNear(t, mgl64.Vec3{1, 1, 1}, u.Position)
	m := u.Orientation.Mat4()
	ident := mgl64.Ident4()
	assert.InDeltaSlice(t, ident[:], m[:], 1e-12, "orientation drifted: %v", m)
}

func TestWorldNormalFollowsRotation(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{}))

	u.Rotation[2] = math.Pi / 2
	u.Bake(u.Position)
	// +X face now points along +Y
	vecNear(t, mgl64.Vec3{0, 1, 0}, u.WorldNormal(0))
}

func TestAnimationLandsOnTarget(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{}))

	ended, groupEnded := 0, 0
	g := s.NewAnimationGroup("turn")
	g.AddTargetedAnimation(Animation{Property: "rotation.y", From: 0, To: math.Pi / 2, Frames: 30, Easing: QuinticInOut}, u)
	g.OnAnimationEnd(func() { ended++ })
	g.OnGroupEnd(func() { groupEnded++ })
	g.Play()

	s.Advance(29)
	assert.Equal(t, 0, ended)
	assert.True(t, u.Rotation[1] < math.Pi/2)

	s.Tick()
	assert.Equal(t, 1, ended)
	assert.Equal(t, 1, groupEnded)
	assert.Equal(t, math.Pi/2, u.Rotation[1])
	assert.False(t, s.Animating())
	require.NoError(t, g.Err())
}

func TestAnimationEndFiresPerTarget(t *testing.T) {
	s := New()
	g := s.NewAnimationGroup("layer")
	for i := 0; i < 9; i++ {
		u := s.MustUnit(s.CreateBox("p", mgl64.Vec3{}, 1, [6]Material{}))
		g.AddTargetedAnimation(Animation{Property: "rotation.x", To: 1, Frames: 10}, u)
	}
	ended := 0
	g.OnAnimationEnd(func() { ended++ })
	g.Play()
	s.Settle(100)
	assert.Equal(t, 9, ended)
}

func TestObserverCanStartNextGroup(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{}))

	second := s.NewAnimationGroup("second")
	second.AddTargetedAnimation(Animation{Property: "rotation.z", To: 1, Frames: 5}, u)

	first := s.NewAnimationGroup("first")
	first.AddTargetedAnimation(Animation{Property: "rotation.x", To: 1, Frames: 5}, u)
	first.OnGroupEnd(func() { second.Play() })
	first.Play()

	s.Advance(5)
	assert.True(t, second.Playing())
	s.Advance(5)
	assert.False(t, second.Playing())
	assert.Equal(t, 1.0, u.Rotation[2])
}

func TestStopDoesNotFireObservers(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{}))
	g := s.NewAnimationGroup("g")
	g.AddTargetedAnimation(Animation{Property: "rotation.x", To: 1, Frames: 5}, u)
	fired := false
	g.OnGroupEnd(func() { fired = true })
	g.Play()
	s.Tick()
	g.Stop()
	s.Advance(10)
	assert.False(t, fired)
	assert.False(t, s.Animating())
}

func TestUnknownProperty(t *testing.T) {
	s := New()
	u := s.MustUnit(s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{}))
	g := s.NewAnimationGroup("g")
	g.AddTargetedAnimation(Animation{Property: "scale.x", To: 1, Frames: 1}, u)
	g.Play()
	s.Tick()
	assert.ErrorIs(t, g.Err(), ErrUnknownProperty)
}

func TestEasings(t *testing.T) {
	for name, e := range map[string]Easing{"linear": Linear, "quintic": QuinticInOut, "spring": NewSpring(30, 8, 1)} {
		assert.InDelta(t, 0, e.Ease(0), 1e-12, name)
		assert.InDelta(t, 1, e.Ease(1), 1e-12, name)
	}
	assert.InDelta(t, 0.5, QuinticInOut.Ease(0.5), 1e-12)
	assert.Less(t, QuinticInOut.Ease(0.25), 0.25)

	_, err := EasingByName("bounce", 30)
	assert.Error(t, err)
}

func TestPickNearestBox(t *testing.T) {
	s := New()
	near := s.CreateBox("near", mgl64.Vec3{1, 0, 0}, 1, [6]Material{})
	s.CreateBox("far", mgl64.Vec3{-1, 0, 0}, 1, [6]Material{})

	res := s.Pick(Ray{Origin: mgl64.Vec3{10, 0.1, 0.2}, Direction: mgl64.Vec3{-1, 0, 0}}, nil)
	require.True(t, res.Hit)
	assert.Equal(t, near, res.Handle)
	vecNear(t, mgl64.Vec3{1.5, 0.1, 0.2}, res.Point)
	vecNear(t, mgl64.Vec3{1, 0, 0}, res.Normal)

	tri, err := s.FaceVertices(res.Handle, res.FaceID)
	require.NoError(t, err)
	for _, p := range tri {
		assert.InDelta(t, 1.5, p.X(), 1e-9)
	}
}

func TestPickRespectsPickableAndFilter(t *testing.T) {
	s := New()
	box := s.CreateBox("box", mgl64.Vec3{}, 1, [6]Material{})
	plane := s.CreatePlane("plane", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0, 0}, 50)
	ray := Ray{Origin: mgl64.Vec3{10, 0, 0}, Direction: mgl64.Vec3{-1, 0, 0}}

	assert.Equal(t, plane, s.Pick(ray, nil).Handle)

	s.SetPickable(plane, false)
	assert.Equal(t, box, s.Pick(ray, nil).Handle)

	s.SetPickable(plane, true)
	res := s.Pick(ray, func(u *Unit) bool { return u.Kind == KindBox })
	assert.Equal(t, box, res.Handle)

	miss := s.Pick(Ray{Origin: mgl64.Vec3{10, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}, nil)
	assert.False(t, miss.Hit)
}

func TestFaceVerticesErrors(t *testing.T) {
	s := New()
	h := s.CreateBox("a", mgl64.Vec3{}, 1, [6]Material{})
	_, err := s.FaceVertices(h, 12)
	assert.ErrorIs(t, err, ErrInvalidFace)
	_, err = s.FaceVertices(h+1, 0)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}
