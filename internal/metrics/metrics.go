package metrics

import (
	"net/http"

	"cluster_fan/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the control loop collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	nodeTemperature *prometheus.GaugeVec
	nodeUp          *prometheus.GaugeVec
	pollFailures    *prometheus.CounterVec
	controlTemp     prometheus.Gauge
	controlValid    prometheus.Gauge
	fanDuty         prometheus.Gauge
	gpioWrites      prometheus.Counter
	gpioFailures    prometheus.Counter
	cycles          prometheus.Counter
	cyclesSkipped   prometheus.Counter
	cycleDuration   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeTemperature: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "fanctl_node_temperature_celsius", Help: "Last successful temperature per node."},
			[]string{"node"},
		),
		nodeUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "fanctl_node_up", Help: "1 if the last poll of the node succeeded."},
			[]string{"node"},
		),
		pollFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "fanctl_node_poll_failures_total", Help: "Failed polls by node and failure kind."},
			[]string{"node", "kind"},
		),
		controlTemp:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "fanctl_control_temperature_celsius", Help: "Aggregated control temperature."}),
		controlValid:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "fanctl_control_signal_valid", Help: "1 if the last cycle produced a control signal."}),
		fanDuty:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "fanctl_fan_duty_percent", Help: "Applied fan duty cycle."}),
		gpioWrites:    prometheus.NewCounter(prometheus.CounterOpts{Name: "fanctl_gpio_writes_total", Help: "Successful duty cycle writes."}),
		gpioFailures:  prometheus.NewCounter(prometheus.CounterOpts{Name: "fanctl_gpio_write_failures_total", Help: "Failed duty cycle writes."}),
		cycles:        prometheus.NewCounter(prometheus.CounterOpts{Name: "fanctl_poll_cycles_total", Help: "Completed poll cycles."}),
		cyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{Name: "fanctl_poll_cycles_skipped_total", Help: "Ticks skipped because a cycle was still running."}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fanctl_poll_cycle_duration_seconds",
			Help:    "Wall-clock duration of a poll cycle.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.nodeTemperature, m.nodeUp, m.pollFailures,
		m.controlTemp, m.controlValid, m.fanDuty,
		m.gpioWrites, m.gpioFailures,
		m.cycles, m.cyclesSkipped, m.cycleDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCycle records one completed cycle. Safe on a nil receiver.
func (m *Metrics) ObserveCycle(s models.Snapshot) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleDuration.Observe(s.Duration().Seconds())
	for name, r := range s.Readings {
		if r.OK() {
			m.nodeUp.WithLabelValues(name).Set(1)
			m.nodeTemperature.WithLabelValues(name).Set(r.TemperatureC)
			continue
		}
		m.nodeUp.WithLabelValues(name).Set(0)
		m.pollFailures.WithLabelValues(name, string(r.Failure)).Inc()
	}
	if s.Control.Valid {
		m.controlValid.Set(1)
		m.controlTemp.Set(s.Control.TemperatureC)
	} else {
		m.controlValid.Set(0)
	}
	m.fanDuty.Set(float64(s.Fan.DutyCycle))
}

// CycleSkipped counts a tick dropped by the at-most-one-cycle guard.
func (m *Metrics) CycleSkipped() {
	if m == nil {
		return
	}
	m.cyclesSkipped.Inc()
}

// GPIOWrite counts a duty cycle write attempt.
func (m *Metrics) GPIOWrite(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.gpioFailures.Inc()
		return
	}
	m.gpioWrites.Inc()
}
