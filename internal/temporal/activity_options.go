// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Shared activity timeout constants
const (
	// AgentStartToCloseTimeout is the timeout for agent activations.
	// Generous because one activation is an LLM completion plus its
	// research tool calls.
	AgentStartToCloseTimeout = 10 * time.Minute

	// AgentHeartbeatTimeout is the heartbeat timeout for agent activations
	AgentHeartbeatTimeout = 2 * time.Minute

	// CheckpointStartToCloseTimeout is the timeout for checkpoint writes
	CheckpointStartToCloseTimeout = 1 * time.Minute

	// CheckpointMaxAttempts is the retry count for checkpoint writes
	CheckpointMaxAttempts = 3
)

// GetAgentActivityOptions returns activity options for agent activations.
// A retried activation would duplicate LLM cost and double-append to the run
// log, so these never retry (MaximumAttempts = 1). LLM and tool failures
// surface to the workflow instead.
func GetAgentActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: AgentStartToCloseTimeout,
		HeartbeatTimeout:    AgentHeartbeatTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1, // Don't retry non-idempotent LLM calls
		},
	}
}

// GetCheckpointActivityOptions returns activity options for checkpoint
// writes. Checkpoints are append-only and safe to retry.
func GetCheckpointActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: CheckpointStartToCloseTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: CheckpointMaxAttempts,
		},
	}
}

// WithAgentOptions applies agent activity options to the workflow context.
func WithAgentOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, GetAgentActivityOptions())
}

// WithCheckpointOptions applies checkpoint activity options to the workflow context.
func WithCheckpointOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, GetCheckpointActivityOptions())
}
