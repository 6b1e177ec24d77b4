package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver records step outcomes in a private Prometheus registry,
// exported with WriteTextfile for the node-exporter textfile collector.
type MetricsObserver struct {
	registry *prometheus.Registry

	stepDuration *prometheus.GaugeVec
	stepResult   *prometheus.GaugeVec
	stepsTotal   *prometheus.CounterVec
	runDuration  prometheus.Gauge
	runSuccess   prometheus.Gauge
	lastRun      prometheus.Gauge
}

// NewMetricsObserver creates an observer labelled with the cluster name.
func NewMetricsObserver(cluster string) *MetricsObserver {
	labels := prometheus.Labels{"cluster": cluster}
	m := &MetricsObserver{
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   "kspray",
				Subsystem:   "step",
				Name:        "duration_seconds",
				Help:        "Duration of the last execution of each step in seconds",
				ConstLabels: labels,
			},
			[]string{"step"},
		),
		stepResult: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   "kspray",
				Subsystem:   "step",
				Name:        "result",
				Help:        "Outcome of the last execution of each step (1 for the reported status)",
				ConstLabels: labels,
			},
			[]string{"step", "status"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "kspray",
				Subsystem:   "step",
				Name:        "total",
				Help:        "Total number of finished steps by status",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kspray",
			Subsystem:   "run",
			Name:        "duration_seconds",
			Help:        "Duration of the last run in seconds",
			ConstLabels: labels,
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kspray",
			Subsystem:   "run",
			Name:        "success",
			Help:        "Whether the last run succeeded (1) or failed (0)",
			ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kspray",
			Subsystem:   "run",
			Name:        "last_timestamp_seconds",
			Help:        "Unix time the last run finished",
			ConstLabels: labels,
		}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.stepDuration, m.stepResult, m.stepsTotal, m.runDuration, m.runSuccess, m.lastRun)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

// Event implements Observer.
func (m *MetricsObserver) Event(event Event) {
	switch event.Type {
	case EventStepCompleted:
		m.recordStep(event.Step, StatusCompleted, event)
	case EventStepSkipped:
		m.recordStep(event.Step, StatusSkipped, event)
	case EventStepFailed:
		m.recordStep(event.Step, StatusFailed, event)
	case EventRunCompleted:
		m.recordRun(1, event)
	case EventRunFailed:
		m.recordRun(0, event)
	}
}

func (m *MetricsObserver) recordStep(step string, status Status, event Event) {
	m.stepDuration.WithLabelValues(step).Set(event.Duration.Seconds())
	for _, s := range []Status{StatusCompleted, StatusSkipped, StatusFailed} {
		value := 0.0
		if s == status {
			value = 1
		}
		m.stepResult.WithLabelValues(step, string(s)).Set(value)
	}
	m.stepsTotal.WithLabelValues(string(status)).Inc()
}

func (m *MetricsObserver) recordRun(success float64, event Event) {
	m.runDuration.Set(event.Duration.Seconds())
	m.runSuccess.Set(success)
	if event.Timestamp.IsZero() {
		m.lastRun.SetToCurrentTime()
		return
	}
	m.lastRun.Set(float64(event.Timestamp.Unix()))
}

// WriteTextfile writes the metrics atomically in Prometheus text format.
func (m *MetricsObserver) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
