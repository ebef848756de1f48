// Package metrics records pricing, sanitizer, command and LLM activity as
// Prometheus metrics. A CLI process has no scrape endpoint, so the registry
// is dumped to a node-exporter textfile on exit when configured.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bashhh89/thecustom/internal/llm"
)

// Manager owns a registry and the sowbench metrics registered on it.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	repairs         *prometheus.CounterVec
	sanitizeResults *prometheus.CounterVec
	commands        *prometheus.CounterVec
	useCaseLatency  *prometheus.HistogramVec
	llmCalls        *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	grandTotal      prometheus.Gauge
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sowbench",
		histogramBuckets: []float64{5, 25, 100, 500, 1000, 5000, 15000, 60000, 120000},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.repairs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "pricing",
		Name:      "repairs_total",
		Help:      "Role values filled in by the reconciler, by kind.",
	}, []string{"kind"})

	m.sanitizeResults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sanitize",
		Name:      "results_total",
		Help:      "LLM responses processed by the sanitizer, by outcome.",
	}, []string{"outcome"})

	m.commands = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "command",
		Name:      "interpreted_total",
		Help:      "Slash commands interpreted, by command and result.",
	}, []string{"command", "result"})

	m.useCaseLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "service",
		Name:      "use_case_duration_milliseconds",
		Help:      "Duration of service use cases in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"use_case", "success"})

	m.llmCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "LLM calls, by provider, task and error code.",
	}, []string{"provider", "task", "error_code"})

	m.llmLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "llm",
		Name:      "latency_milliseconds",
		Help:      "LLM call latency in milliseconds, retries included.",
		Buckets:   m.histogramBuckets,
	}, []string{"provider", "task"})

	m.grandTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sow",
		Name:      "last_grand_total",
		Help:      "Grand total of the most recently persisted SOW.",
	})
}

// RecordRepairs adds n repairs of the given kind. Zero is ignored.
func (m *Manager) RecordRepairs(kind string, n int) {
	if n > 0 {
		m.repairs.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordSanitize counts one sanitizer outcome, e.g. "wrapper" or "malformed".
func (m *Manager) RecordSanitize(outcome string) {
	m.sanitizeResults.WithLabelValues(outcome).Inc()
}

// RecordCommand counts one interpreted slash command.
func (m *Manager) RecordCommand(command string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(command, result).Inc()
}

// RecordUseCase observes the duration of a service use case.
func (m *Manager) RecordUseCase(name string, d time.Duration, success bool) {
	m.useCaseLatency.WithLabelValues(name, fmt.Sprint(success)).Observe(float64(d.Milliseconds()))
}

// SetGrandTotal records the grand total of the last persisted SOW.
func (m *Manager) SetGrandTotal(total float64) {
	m.grandTotal.Set(total)
}

// OnCallComplete implements llm.Observer.
func (m *Manager) OnCallComplete(e llm.LLMCallEvent) {
	code := e.ErrorCode
	if e.Success {
		code = "none"
	}
	m.llmCalls.WithLabelValues(string(e.Provider), string(e.Task), code).Inc()
	m.llmLatency.WithLabelValues(string(e.Provider), string(e.Task)).Observe(float64(e.LatencyMs))
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values in the Prometheus text
// format, atomically replacing path.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
