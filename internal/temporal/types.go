// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"errors"
	"fmt"
	"strings"

	"cloudy-intel/internal/state"
)

// DesignWorkflowName is the registered name of the design pipeline workflow.
const DesignWorkflowName = "DesignWorkflow"

// DesignRequest starts one design run.
type DesignRequest struct {
	// Problem is the user's architecture problem statement
	Problem string

	// CloudProvider selects the target cloud ("aws" or "azure")
	CloudProvider string

	// SessionID identifies the run for checkpointing. When empty the
	// workflow ID is used.
	SessionID string

	// MaxIterations bounds regeneration passes. Zero means the default
	// ceiling.
	MaxIterations int
}

// Validate checks the request before the pipeline starts.
func (r DesignRequest) Validate() error {
	if strings.TrimSpace(r.Problem) == "" {
		return errors.New("problem statement is required")
	}
	switch strings.ToLower(r.CloudProvider) {
	case "aws", "azure":
	default:
		return fmt.Errorf("unsupported cloud provider: %s", r.CloudProvider)
	}
	if r.MaxIterations < 0 {
		return errors.New("max iterations cannot be negative")
	}
	return nil
}

// DesignResult is the outcome of one design run.
type DesignResult struct {
	// SessionID is the checkpointing identity of the run
	SessionID string

	// Problem is the user's original problem statement
	Problem string

	// CloudProvider is the normalized target cloud
	CloudProvider string

	// Phase is the terminal pipeline phase
	Phase state.Phase

	// Summary is the presenter's final report
	Summary string

	// FinalArchitecture holds the approved component per domain
	FinalArchitecture map[state.Domain]state.Component

	// IterationsUsed counts the regeneration passes the run consumed
	IterationsUsed int

	// Forced is true when the iteration ceiling cut the run short
	Forced bool

	// FactualErrorsExist reports whether any validator ever flagged errors
	FactualErrorsExist bool

	// DesignFlawsExist reports whether any auditor ever flagged flaws
	DesignFlawsExist bool

	// ValidationFeedback holds the last validation pass's verdicts
	ValidationFeedback []state.ValidationFeedback

	// AuditFeedback holds the last audit pass's verdicts
	AuditFeedback []state.AuditFeedback

	// Messages is the full run log
	Messages []state.Message
}

// SupervisorInput carries the run state into a coordinator activity.
type SupervisorInput struct {
	State state.WorkflowState
}

// ArchitectSupervisorResult is the architect supervisor's phase setup.
type ArchitectSupervisorResult struct {
	// Response is the supervisor's analysis appended to the run log
	Response state.Message

	// Tasks are the decomposed per-domain assignments
	Tasks []state.DecomposedTask

	// Domains lists the relevance-filtered domains, in canonical order
	Domains []state.Domain

	// ActiveAgents is the architect set this generate pass requires
	ActiveAgents []string
}

// CoordinatorResult is the validator or audit supervisor's phase setup.
type CoordinatorResult struct {
	// Response is the supervisor's coordination note for the run log
	Response state.Message

	// Domains lists the relevance-filtered domains for validator fan-out.
	// Empty for the audit supervisor, whose fan-out is always all pillars.
	Domains []state.Domain

	// ActiveAgents is the agent set this phase requires
	ActiveAgents []string
}

// AgentInput carries the run state into one domain-scoped agent activity.
type AgentInput struct {
	State  state.WorkflowState
	Domain state.Domain
}

// AuditorInput carries the run state into one pillar auditor activity.
type AuditorInput struct {
	State  state.WorkflowState
	Pillar state.Pillar
}

// ArchitectResult is one domain architect's contribution.
type ArchitectResult struct {
	Agent     string
	Domain    state.Domain
	Component state.Component
	Response  state.Message
}

// ValidatorResult is one domain validator's verdict.
type ValidatorResult struct {
	Agent    string
	Domain   state.Domain
	Feedback state.ValidationFeedback
	Response state.Message
}

// AuditorResult is one pillar auditor's verdict.
type AuditorResult struct {
	Agent    string
	Pillar   state.Pillar
	Feedback state.AuditFeedback
	Response state.Message
}

// PresenterResult is the final presenter's report.
type PresenterResult struct {
	Summary  string
	Response state.Message
}
