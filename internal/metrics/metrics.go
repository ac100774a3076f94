// Package metrics exposes Prometheus counters for puzzle activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	moves     *prometheus.CounterVec
	rotations prometheus.Counter
	queue     prometheus.Gauge
	frames    prometheus.Histogram
	solves    prometheus.Counter
	restarts  prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cubescene",
			Name:      "moves_committed_total",
			Help:      "Moves committed to the piece grid, by source.",
		}, []string{"source"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cubescene",
			Name:      "rotations_started_total",
			Help:      "Layer rotations started.",
		}),
		queue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cubescene",
			Name:      "move_queue_depth",
			Help:      "Moves waiting in the rotation queue, including the one in flight.",
		}),
		frames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cubescene",
			Name:      "rotation_frames",
			Help:      "Animation length of committed moves in frames.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120},
		}),
		solves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cubescene",
			Name:      "solves_total",
			Help:      "Times the puzzle reached the solved state.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cubescene",
			Name:      "restarts_total",
			Help:      "Scrambles started by the player.",
		}),
	}
	m.registry.MustRegister(m.moves, m.rotations, m.queue, m.frames, m.solves, m.restarts)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RotationStarted counts a rotation and records the queue depth.
func (m *Metrics) RotationStarted(pending int) {
	m.rotations.Inc()
	m.queue.Set(float64(pending))
}

// MoveCommitted counts a baked move.
func (m *Metrics) MoveCommitted(source string, frames, pending int) {
	m.moves.WithLabelValues(source).Inc()
	m.frames.Observe(float64(frames))
	m.queue.Set(float64(pending))
}

// Solved counts a solve.
func (m *Metrics) Solved() {
	m.solves.Inc()
}

// Restarted counts a scramble.
func (m *Metrics) Restarted() {
	m.restarts.Inc()
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs an HTTP endpoint at addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
