// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *PrometheusRecorder {
	t.Helper()
	// A fresh registry per test avoids duplicate registration panics.
	return NewPrometheusRecorderWith(prometheus.NewRegistry())
}

func TestObserveAgentRun(t *testing.T) {
	rec := newTestRecorder(t)

	rec.ObserveAgentRun("compute_architect", "generate", "gpt-4o-mini", true, 1200*time.Millisecond)
	rec.ObserveAgentRun("compute_architect", "generate", "gpt-4o-mini", true, 900*time.Millisecond)
	rec.ObserveAgentRun("storage_validator", "validate", "gpt-4o-mini", false, 300*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.agentRunsTotal.WithLabelValues("compute_architect", "generate", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.agentRunsTotal.WithLabelValues("storage_validator", "validate", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(rec.agentDuration))
}

func TestObserveToolCall(t *testing.T) {
	rec := newTestRecorder(t)

	rec.ObserveToolCall("search_architecture_docs", true)
	rec.ObserveToolCall("search_architecture_docs", true)
	rec.ObserveToolCall("web_search", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.toolCallsTotal.WithLabelValues("search_architecture_docs", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.toolCallsTotal.WithLabelValues("web_search", "error")))
}

func TestObserveRunComplete(t *testing.T) {
	rec := newTestRecorder(t)

	rec.ObserveRunComplete("aws", false, 1)
	rec.ObserveRunComplete("aws", true, 5)
	rec.ObserveRunComplete("azure", false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runsTotal.WithLabelValues("aws", "complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runsTotal.WithLabelValues("aws", "forced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runsTotal.WithLabelValues("azure", "complete")))
}

func TestRecorderRegistersOnProvidedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorderWith(reg)
	rec.ObserveAgentRun("network_architect", "generate", "gpt-4o-mini", true, time.Second)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "cloudy_intel_agent_runs_total")
	assert.Contains(t, names, "cloudy_intel_agent_duration_seconds")
}

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveAgentRun("compute_architect", "generate", "gpt-4o-mini", true, time.Second)
	rec.ObserveToolCall("web_search", true)
	rec.ObserveRunComplete("aws", false, 2)
}
