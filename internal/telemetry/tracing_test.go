// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "cloudy-intel", cfg.ServiceName)
	assert.Equal(t, "localhost:4318", cfg.CollectorURL)
	assert.Equal(t, 1.0, cfg.SamplingRate)
}

func TestWorkflowAttrs(t *testing.T) {
	attrs := WorkflowAttrs("wf-1", "DesignWorkflow", "run-9")
	require.Len(t, attrs, 3)
	assert.Equal(t, AttrWorkflowID, attrs[0].Key)
	assert.Equal(t, "wf-1", attrs[0].Value.AsString())
	assert.Equal(t, AttrWorkflowType, attrs[1].Key)
	assert.Equal(t, AttrRunID, attrs[2].Key)
}

func TestPipelineAttrs(t *testing.T) {
	attrs := PipelineAttrs("session-1", "validate", 2)
	require.Len(t, attrs, 3)
	assert.Equal(t, AttrSessionID, attrs[0].Key)
	assert.Equal(t, "session-1", attrs[0].Value.AsString())
	assert.Equal(t, AttrPhase, attrs[1].Key)
	assert.Equal(t, "validate", attrs[1].Value.AsString())
	assert.Equal(t, AttrIteration, attrs[2].Key)
	assert.Equal(t, int64(2), attrs[2].Value.AsInt64())
}

func TestAgentAttrsOmitsEmptyModel(t *testing.T) {
	attrs := AgentAttrs("storage_architect", "")
	require.Len(t, attrs, 1)
	assert.Equal(t, AttrAgent, attrs[0].Key)

	attrs = AgentAttrs("storage_architect", "gpt-4o-mini")
	require.Len(t, attrs, 2)
	assert.Equal(t, AttrModel, attrs[1].Key)
	assert.Equal(t, "gpt-4o-mini", attrs[1].Value.AsString())
}

func TestErrorAttrs(t *testing.T) {
	assert.Empty(t, ErrorAttrs(nil))

	attrs := ErrorAttrs(errors.New("index unavailable"))
	require.Len(t, attrs, 2)
	assert.Equal(t, AttrError, attrs[0].Key)
	assert.True(t, attrs[0].Value.AsBool())
	assert.Equal(t, "index unavailable", attrs[1].Value.AsString())
}

func TestDurationAttrs(t *testing.T) {
	attrs := DurationAttrs(1500 * time.Millisecond)
	require.Len(t, attrs, 1)
	assert.Equal(t, AttrDuration, attrs[0].Key)
	assert.Equal(t, int64(1500), attrs[0].Value.AsInt64())
}

// Without a configured provider the helpers fall through to the noop
// tracer: spans carry zero IDs and the mutators are safe to call.
func TestSpanHelpersWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-tracer", "test-span")
	defer span.End()

	require.NotNil(t, SpanFromContext(ctx))
	AddEvent(ctx, "event", AttrSuccess.Bool(true))
	AddAttributes(ctx, AttrToolName.String("web_search"))
	RecordError(ctx, errors.New("boom"))
	SetSpanStatus(ctx, codes.Error, "boom")

	assert.Equal(t, "00000000000000000000000000000000", TraceID(ctx))
	assert.Equal(t, "0000000000000000", SpanID(ctx))
}
