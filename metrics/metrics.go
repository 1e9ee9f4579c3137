// Package metrics counts what a generation session did.
//
// afgen runs as a short-lived batch job, so counters are not scraped; they are
// written to a node_exporter textfile at the end of a session when asked to.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "afgen"

// Recorder holds the session counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	rounds    prometheus.Counter
	generated prometheus.Counter
	deferred  prometheus.Counter
	failures  *prometheus.CounterVec
	aborted   prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Processing rounds run.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_total",
			Help:      "Declarations whose factory and module were emitted.",
		}),
		deferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deferred_total",
			Help:      "Declarations deferred to a later round because a type did not resolve.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Structural validation failures by kind.",
		}, []string{"kind"}),
		aborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_aborted_total",
			Help:      "Rounds stopped early by a validation failure.",
		}),
	}
	r.registry.MustRegister(r.rounds, r.generated, r.deferred, r.failures, r.aborted)
	return r
}

// Registry exposes the underlying registry (for tests and custom exporters).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Round counts one processing round. Methods on a nil Recorder are no-ops.
func (r *Recorder) Round() {
	if r != nil {
		r.rounds.Inc()
	}
}

// Generated counts one declaration whose factory and module were emitted.
func (r *Recorder) Generated() {
	if r != nil {
		r.generated.Inc()
	}
}

// Deferred counts one declaration postponed to a later round.
func (r *Recorder) Deferred() {
	if r != nil {
		r.deferred.Inc()
	}
}

// Failure counts one validation failure of the given kind.
func (r *Recorder) Failure(kind string) {
	if r != nil {
		r.failures.WithLabelValues(kind).Inc()
	}
}

// Aborted counts one round stopped early by a validation failure.
func (r *Recorder) Aborted() {
	if r != nil {
		r.aborted.Inc()
	}
}

// WriteTextfile writes the counters in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
