package puzzle

import (
	"testing"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualRunner records runs and lets the test decide when each finishes.
type manualRunner struct {
	runs  []Request
	dones []func()
}

func (r *manualRunner) Run(req Request, done func()) {
	r.runs = append(r.runs, req)
	r.dones = append(r.dones, done)
}

func move(axis notation.Axis, layer int) Request {
	return Request{Move: notation.Move{Axis: axis, Layer: layer, Clockwise: true}, Source: SourceManual}
}

func TestQueueRunsOneAtATime(t *testing.T) {
	r := &manualRunner{}
	q := NewQueue(r)
	var finished []Request
	starts, stops := 0, 0
	q.SetStartCallback(func() { starts++ })
	q.SetStopCallback(func() { stops++ })
	q.SetFinishCallback(func(req Request) { finished = append(finished, req) })

	q.Enqueue(move(notation.X, 0))
	q.Enqueue(move(notation.Y, 1))
	q.Enqueue(move(notation.Z, 2))

	assert.Equal(t, StateRotating, q.State())
	assert.Equal(t, 3, q.Len())
	require.Len(t, r.runs, 1, "only the head runs")
	assert.Equal(t, 1, starts)

	r.dones[0]()
	require.Len(t, r.runs, 2)
	assert.Equal(t, notation.Y, r.runs[1].Move.Axis)
	assert.Equal(t, 2, q.Len())

	r.dones[1]()
	r.dones[2]()
	assert.Equal(t, StateIdle, q.State())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 1, stops)
	require.Len(t, finished, 3)
	assert.Equal(t, notation.Z, finished[2].Move.Axis)
}

func TestQueueIgnoresStaleCompletion(t *testing.T) {
	r := &manualRunner{}
	q := NewQueue(r)
	q.Enqueue(move(notation.X, 0))
	q.Enqueue(move(notation.X, 1))

	r.dones[0]()
	r.dones[0]()
	assert.Equal(t, 1, q.Len(), "a second completion of the same run is ignored")
	assert.Equal(t, StateRotating, q.State())

	r.dones[1]()
	assert.Equal(t, StateIdle, q.State())
}

func TestQueueRestartsAfterIdle(t *testing.T) {
	r := &manualRunner{}
	q := NewQueue(r)
	starts := 0
	q.SetStartCallback(func() { starts++ })

	q.Enqueue(move(notation.X, 0))
	r.dones[0]()
	q.Enqueue(move(notation.X, 0))
	assert.Equal(t, 2, starts)
	assert.Len(t, r.runs, 2)
}

func TestQueueWithSynchronousRunner(t *testing.T) {
	var order []int
	q := NewQueue(RunnerFunc(func(req Request, done func()) {
		order = append(order, req.Move.Layer)
		done()
	}))
	q.Enqueue(move(notation.Y, 2))
	q.Enqueue(move(notation.Y, 1))
	assert.Equal(t, []int{2, 1}, order)
	assert.Equal(t, StateIdle, q.State())
}

func TestBarrierFiresOnce(t *testing.T) {
	fired := 0
	b := NewBarrier(3, func() { fired++ })
	b.Done()
	b.Done()
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, b.Remaining())
	b.Done()
	b.Done()
	assert.Equal(t, 1, fired)

	empty := NewBarrier(0, func() { fired++ })
	empty.Done()
	assert.Equal(t, 2, fired)
}
