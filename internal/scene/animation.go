package scene

// Animatable is anything with named float properties an animation can drive.
type Animatable interface {
	Property(name string) (float64, error)
	SetProperty(name string, value float64) error
}

// Animation interpolates one property from From to To over Frames ticks.
type Animation struct {
	Property string
	From     float64
	To       float64
	Frames   int
	Easing   Easing
}

// value returns the interpolated value at frame f. The last frame lands exactly on To.
func (a Animation) value(f int) float64 {
	if a.Frames <= 0 || f >= a.Frames {
		return a.To
	}
	t := float64(f) / float64(a.Frames)
	e := Linear
	if a.Easing != nil {
		e = a.Easing
	}
	return a.From + (a.To-a.From)*e.Ease(t)
}

type targeted struct {
	anim   Animation
	target Animatable
	frame  int
	done   bool
}

// AnimationGroup plays several targeted animations together.
// Observers registered with OnAnimationEnd fire once per finished animation;
// observers registered with OnGroupEnd fire once after the last one.
type AnimationGroup struct {
	Name string

	scene      *Scene
	targets    []*targeted
	onEnd      []func()
	onGroupEnd []func()
	playing    bool
	remaining  int
	err        error
}

// NewAnimationGroup creates a stopped group bound to this scene.
func (s *Scene) NewAnimationGroup(name string) *AnimationGroup {
	return &AnimationGroup{Name: name, scene: s}
}

// AddTargetedAnimation adds an animation driving target.
func (g *AnimationGroup) AddTargetedAnimation(a Animation, target Animatable) {
	g.targets = append(g.targets, &targeted{anim: a, target: target})
}

// OnAnimationEnd registers an observer fired for every animation that ends.
func (g *AnimationGroup) OnAnimationEnd(fn func()) {
	g.onEnd = append(g.onEnd, fn)
}

// OnGroupEnd registers an observer fired when every animation has ended.
func (g *AnimationGroup) OnGroupEnd(fn func()) {
	g.onGroupEnd = append(g.onGroupEnd, fn)
}

// Len returns the number of targeted animations.
func (g *AnimationGroup) Len() int {
	return len(g.targets)
}

// Playing reports whether the group is registered with the scene.
func (g *AnimationGroup) Playing() bool {
	return g.playing
}

// Err returns the first error raised while setting a property.
func (g *AnimationGroup) Err() error {
	return g.err
}

// Play applies frame zero to every target and starts advancing on each Tick.
// A group with no animations ends immediately.
func (g *AnimationGroup) Play() *AnimationGroup {
	if g.playing {
		return g
	}
	g.remaining = len(g.targets)
	for _, t := range g.targets {
		t.frame = 0
		t.done = false
		g.set(t, t.anim.From)
	}
	if g.remaining == 0 {
		g.fireGroupEnd()
		return g
	}
	g.playing = true
	g.scene.groups = append(g.scene.groups, g)
	return g
}

// Stop detaches the group without firing any end observers.
// Targets keep whatever values they last received.
func (g *AnimationGroup) Stop() {
	if !g.playing {
		return
	}
	g.playing = false
	g.scene.remove(g)
}

func (g *AnimationGroup) set(t *targeted, v float64) {
	if err := t.target.SetProperty(t.anim.Property, v); err != nil && g.err == nil {
		g.err = err
	}
}

// advance moves every unfinished animation one frame and returns how many ended.
func (g *AnimationGroup) advance() int {
	ended := 0
	for _, t := range g.targets {
		if t.done {
			continue
		}
		t.frame++
		g.set(t, t.anim.value(t.frame))
		if t.frame >= t.anim.Frames {
			t.done = true
			ended++
		}
	}
	g.remaining -= ended
	return ended
}

func (g *AnimationGroup) fireGroupEnd() {
	for _, fn := range g.onGroupEnd {
		fn()
	}
}

func (s *Scene) remove(g *AnimationGroup) {
	for i, other := range s.groups {
		if other == g {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return
		}
	}
}

// Tick renders one frame: every playing group advances once, then end observers
// run. Groups started by an observer begin advancing on the next Tick.
func (s *Scene) Tick() {
	s.frame++

	active := make([]*AnimationGroup, len(s.groups))
	copy(active, s.groups)

	for _, g := range active {
		if !g.playing {
			continue
		}
		ended := g.advance()
		finished := g.remaining == 0
		if finished {
			g.playing = false
			s.remove(g)
		}
		for i := 0; i < ended; i++ {
			for _, fn := range g.onEnd {
				fn()
			}
		}
		if finished {
			g.fireGroupEnd()
		}
	}
}

// Advance renders n frames.
func (s *Scene) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Settle ticks until no animation is playing or max frames have been rendered.
// It returns the number of frames rendered.
func (s *Scene) Settle(max int) int {
	n := 0
	for s.Animating() && n < max {
		s.Tick()
		n++
	}
	return n
}
