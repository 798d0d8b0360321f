// Package metrics exports generation and media telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shubh-37/social-strategist/internal/errs"
)

const namespace = "strategist"

// Outcome labels besides the error kinds.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Observer captures telemetry for generative calls and media uploads.
type Observer interface {
	RecordGeneration(op string, duration time.Duration, err error)
	RecordUpload(duration time.Duration, sizeBytes int, err error)
}

// PrometheusObserver exports planner metrics to Prometheus.
type PrometheusObserver struct {
	generationDuration *prometheus.HistogramVec
	generations        *prometheus.CounterVec
	uploadDuration     prometheus.Histogram
	uploadErrors       prometheus.Counter
	uploadBytes        prometheus.Counter
}

// NewPrometheusObserver registers the planner metrics with reg, falling back
// to the default registerer.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of generative calls including response validation.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"operation"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generative calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "media_upload_duration_seconds",
			Help:      "Latency of generated image uploads.",
			Buckets:   prometheus.DefBuckets,
		}),
		uploadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_upload_errors_total",
			Help:      "Count of failed image uploads.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploaded_bytes_total",
			Help:      "Cumulative size of uploaded images.",
		}),
	}

	var err error
	if o.generationDuration, err = register(reg, o.generationDuration); err != nil {
		return nil, err
	}
	if o.generations, err = register(reg, o.generations); err != nil {
		return nil, err
	}
	if o.uploadDuration, err = register(reg, o.uploadDuration); err != nil {
		return nil, err
	}
	if o.uploadErrors, err = register(reg, o.uploadErrors); err != nil {
		return nil, err
	}
	if o.uploadBytes, err = register(reg, o.uploadBytes); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor so two observers share one set of series.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register planner metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) RecordGeneration(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.generationDuration.WithLabelValues(op).Observe(duration.Seconds())
	o.generations.WithLabelValues(op, Outcome(err)).Inc()
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.uploadDuration.Observe(duration.Seconds())
	if err != nil {
		o.uploadErrors.Inc()
		return
	}
	o.uploadBytes.Add(float64(sizeBytes))
}

// Outcome maps an error to its metric label: "ok", the error kind, or "error".
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if kind, ok := errs.KindOf(err); ok {
		return string(kind)
	}
	return OutcomeError
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordGeneration(string, time.Duration, error) {}

func (Nop) RecordUpload(time.Duration, int, error) {}
