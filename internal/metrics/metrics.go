// Package metrics exposes internal counters and gauges for the control
// core's own operation. The core never starts an HTTP server of its own; a
// host process wiring the core into a real service is expected to take
// Registry and serve it however it already serves metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every metric this core produces, collected into its own
// prometheus.Registerer so a host process can merge it into a larger
// registry without name collisions.
type Registry struct {
	Registry *prometheus.Registry

	Ticks          prometheus.Counter
	UpdateFailures prometheus.Counter
	SwitchPattern  prometheus.Gauge
	TrainSpeed     *prometheus.GaugeVec
	StopDistance   *prometheus.GaugeVec
}

// NewRegistry builds a Registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{Registry: prometheus.NewRegistry()}

	r.Ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ptc",
		Name:      "ticks_total",
		Help:      "Number of supervisor ticks processed.",
	})
	r.UpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ptc",
		Name:      "update_failures_total",
		Help:      "Number of update() calls that returned an error.",
	})
	r.SwitchPattern = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ptc",
		Name:      "switch_pattern",
		Help:      "Pattern id most recently selected by the switch director.",
	})
	r.TrainSpeed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ptc",
		Name:      "train_speed_cm_per_s",
		Help:      "Last commanded speed for each train.",
	}, []string{"train"})
	r.StopDistance = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ptc",
		Name:      "train_stop_distance_cm",
		Help:      "Last tracked distance to the current stop target for each train.",
	}, []string{"train"})

	r.Registry.MustRegister(r.Ticks, r.UpdateFailures, r.SwitchPattern, r.TrainSpeed, r.StopDistance)
	return r
}
