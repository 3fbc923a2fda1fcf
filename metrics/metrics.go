// Package metrics exposes auth activity as Prometheus counters.
package metrics

import (
	"context"
	"net/http"

	auth "github.com/goliatone/go-login"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth"

// ActivityRecorder is an auth.ActivitySink that counts events by type and
// failure reason. Identity keys are never used as labels.
type ActivityRecorder struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

var _ auth.ActivitySink = (*ActivityRecorder)(nil)

// NewActivityRecorder registers the auth counters on a fresh registry along
// with the process and Go runtime collectors.
func NewActivityRecorder() *ActivityRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewActivityRecorderWithRegistry(registry)
}

func NewActivityRecorderWithRegistry(registry *prometheus.Registry) *ActivityRecorder {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Auth activity events by type and failure reason.",
	}, []string{"event", "reason"})

	registry.MustRegister(events)

	return &ActivityRecorder{
		registry: registry,
		events:   events,
	}
}

// Record implements auth.ActivitySink
func (r *ActivityRecorder) Record(_ context.Context, event auth.ActivityEvent) error {
	r.events.WithLabelValues(string(event.EventType), event.Reason).Inc()
	return nil
}

// Registry returns the registry backing the recorder
func (r *ActivityRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *ActivityRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
