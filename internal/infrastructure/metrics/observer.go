package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublishObserver nhận telemetry của publish workflow
type PublishObserver interface {
	RecordStep(step string, duration time.Duration, err error)
	RecordOutcome(state string)
}

// CheckoutObserver nhận telemetry của checkout gateway
type CheckoutObserver interface {
	RecordCheckout(provider string, duration time.Duration, err error)
}

// PrometheusObserver export metrics publish/checkout cho /metrics
type PrometheusObserver struct {
	stepDuration     *prometheus.HistogramVec
	stepErrors       *prometheus.CounterVec
	outcomes         *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	checkoutErrors   *prometheus.CounterVec
}

func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "storefront"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "step_duration_seconds",
			Help:      "Latency of each publish workflow step.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		stepErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "step_errors_total",
			Help:      "Count of failed publish workflow steps.",
		}, []string{"step"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "submissions_total",
			Help:      "Publish submissions by terminal state.",
		}, []string{"state"}),
		checkoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "session_duration_seconds",
			Help:      "Latency of checkout session creation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		checkoutErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "session_errors_total",
			Help:      "Count of failed checkout session requests.",
		}, []string{"provider"}),
	}

	collectors := []prometheus.Collector{o.stepDuration, o.stepErrors, o.outcomes, o.checkoutDuration, o.checkoutErrors}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, fmt.Errorf("metrics already registered for namespace %q", namespace)
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordStep(step string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
	if err != nil {
		o.stepErrors.WithLabelValues(step).Inc()
	}
}

func (o *PrometheusObserver) RecordOutcome(state string) {
	if o == nil {
		return
	}
	o.outcomes.WithLabelValues(state).Inc()
}

func (o *PrometheusObserver) RecordCheckout(provider string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.checkoutDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		o.checkoutErrors.WithLabelValues(provider).Inc()
	}
}

// NopObserver dùng khi không cần metrics (tests, CLI)
type NopObserver struct{}

func (NopObserver) RecordStep(string, time.Duration, error) {}

func (NopObserver) RecordOutcome(string) {}

func (NopObserver) RecordCheckout(string, time.Duration, error) {}
