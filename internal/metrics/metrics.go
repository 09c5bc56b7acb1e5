// Package metrics counts habit writes in a Prometheus registry that the
// binary dumps to a node_exporter textfile on exit.
package metrics

import (
	"context"
	"fmt"

	"github.com/alexanderramin/habitual/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is a service.UseCaseObserver backed by its own registry, so
// tests and the binary never share the global one.
type Recorder struct {
	reg      *prometheus.Registry
	writes   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dayMarks *prometheus.CounterVec
}

var _ service.UseCaseObserver = (*Recorder)(nil)

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		writes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "habitual_writes_total",
				Help: "Habit store writes by use case and result",
			},
			[]string{"use_case", "result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "habitual_write_duration_seconds",
				Help:    "Habit store write duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"use_case"},
		),
		dayMarks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "habitual_day_marks_total",
				Help: "Days marked, by the status they ended in",
			},
			[]string{"status"},
		),
	}
}

func (r *Recorder) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	result := "ok"
	if !e.Success() {
		result = "error"
	}
	r.writes.WithLabelValues(e.Name, result).Inc()
	r.latency.WithLabelValues(e.Name).Observe(e.Duration.Seconds())

	if status, ok := e.Fields["status"].(string); ok && e.Success() && e.Day != "" {
		r.dayMarks.WithLabelValues(status).Inc()
	}
}

// Gatherer exposes the registry for scraping or inspection.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile replaces path with the current values in text exposition
// format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
