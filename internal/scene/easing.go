package scene

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

// Easing maps normalized time in [0,1] to normalized progress.
type Easing interface {
	Ease(t float64) float64
}

// EasingFunc adapts a plain function to Easing.
type EasingFunc func(t float64) float64

// Ease implements Easing.
func (f EasingFunc) Ease(t float64) float64 { return f(t) }

// Linear progresses at a constant rate.
var Linear Easing = EasingFunc(func(t float64) float64 { return t })

// QuinticInOut accelerates with t^5 and decelerates symmetrically.
var QuinticInOut Easing = EasingFunc(func(t float64) float64 {
	if t >= 0.5 {
		return (1-math.Pow((1-t)*2, 5))*0.5 + 0.5
	}
	return math.Pow(t*2, 5) * 0.5
})

// Spring is a critically damped spring curve sampled once per frame.
type Spring struct {
	samples []float64
}

// NewSpring samples a harmonica spring over frames steps.
// The curve is normalized so that it ends on exactly 1.
func NewSpring(frames int, angularFrequency, damping float64) *Spring {
	if frames < 1 {
		frames = 1
	}
	spring := harmonica.NewSpring(harmonica.FPS(frames), angularFrequency, damping)

	samples := make([]float64, frames+1)
	pos, vel := 0.0, 0.0
	for i := 1; i <= frames; i++ {
		pos, vel = spring.Update(pos, vel, 1)
		samples[i] = pos
	}
	if last := samples[frames]; last != 0 {
		for i := range samples {
			samples[i] /= last
		}
	}
	return &Spring{samples: samples}
}

// Ease implements Easing by interpolating between samples.
func (s *Spring) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	n := len(s.samples) - 1
	x := t * float64(n)
	i := int(x)
	frac := x - float64(i)
	return s.samples[i] + (s.samples[i+1]-s.samples[i])*frac
}

// EasingByName resolves a configured easing name.
// frames is used to sample frame based curves.
func EasingByName(name string, frames int) (Easing, error) {
	switch name {
	case "", "quintic":
		return QuinticInOut, nil
	case "linear":
		return Linear, nil
	case "spring":
		return NewSpring(frames, 8, 1), nil
	default:
		return nil, fmt.Errorf("scene: unknown easing %q", name)
	}
}
