// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package metrics provides Prometheus-based metrics recording for pipeline
// runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics surface the activities record through.
type Recorder interface {
	ObserveAgentRun(agent, phase, model string, success bool, duration time.Duration)
	ObserveToolCall(tool string, success bool)
	ObserveRunComplete(provider string, forced bool, iterations int)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

// ObserveAgentRun implements Recorder.
func (NoopRecorder) ObserveAgentRun(agent, phase, model string, success bool, duration time.Duration) {
}

// ObserveToolCall implements Recorder.
func (NoopRecorder) ObserveToolCall(tool string, success bool) {}

// ObserveRunComplete implements Recorder.
func (NoopRecorder) ObserveRunComplete(provider string, forced bool, iterations int) {}

// PrometheusRecorder implements the Recorder interface using Prometheus
// metrics.
type PrometheusRecorder struct {
	agentRunsTotal   *prometheus.CounterVec
	agentDuration    *prometheus.HistogramVec
	toolCallsTotal   *prometheus.CounterVec
	runsTotal        *prometheus.CounterVec
	iterationsPerRun prometheus.Histogram
}

// NewPrometheusRecorder creates a recorder registered on the default
// registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	return NewPrometheusRecorderWith(prometheus.DefaultRegisterer)
}

// NewPrometheusRecorderWith creates a recorder registered on reg.
func NewPrometheusRecorderWith(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		agentRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudy_intel_agent_runs_total",
				Help: "Total number of agent activations by agent, phase, and status",
			},
			[]string{"agent", "phase", "status"},
		),
		agentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cloudy_intel_agent_duration_seconds",
				Help:    "Duration of agent activations including their completion call",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent", "model"},
		),
		toolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudy_intel_tool_calls_total",
				Help: "Total number of research tool calls by tool and status",
			},
			[]string{"tool", "status"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudy_intel_runs_total",
				Help: "Total number of completed design runs by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		iterationsPerRun: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cloudy_intel_iterations_per_run",
				Help:    "Regeneration iterations consumed per design run",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 13},
			},
		),
	}
}

// ObserveAgentRun records one agent activation.
func (p *PrometheusRecorder) ObserveAgentRun(agent, phase, model string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	p.agentRunsTotal.WithLabelValues(agent, phase, status).Inc()
	p.agentDuration.WithLabelValues(agent, model).Observe(duration.Seconds())
}

// ObserveToolCall records one research tool call.
func (p *PrometheusRecorder) ObserveToolCall(tool string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	p.toolCallsTotal.WithLabelValues(tool, status).Inc()
}

// ObserveRunComplete records the outcome of a whole design run.
func (p *PrometheusRecorder) ObserveRunComplete(provider string, forced bool, iterations int) {
	outcome := "complete"
	if forced {
		outcome = "forced"
	}
	p.runsTotal.WithLabelValues(provider, outcome).Inc()
	p.iterationsPerRun.Observe(float64(iterations))
}
