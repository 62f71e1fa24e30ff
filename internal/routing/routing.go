// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package routing holds the edge decisions of the design pipeline. Each
// router is a function over the workflow state returning a discrete edge
// label; the workflow switches on the label to pick its next step. The only
// routers that write state are the two feedback evaluators (they raise the
// matching quality-gate flag) and ForceCompletion. Transitions writes the
// whole machine down as a rules table, and Transition resolves an edge
// against it.
package routing

import (
	"cloudy-intel/internal/gates"
	"cloudy-intel/internal/relevance"
	"cloudy-intel/internal/state"
)

// Edge labels returned by the routers.
type Edge string

const (
	EdgeMoveToValidation   Edge = "move_to_validation"
	EdgeContinueGeneration Edge = "continue_generation"
	EdgeEvaluateValidation Edge = "evaluate_validation"
	EdgeContinueValidation Edge = "continue_validation"
	EdgeEvaluateAudit      Edge = "evaluate_audit"
	EdgeContinueAudit      Edge = "continue_audit"
	EdgeReturnToArchitects Edge = "return_to_architects"
	EdgeMoveToAudit        Edge = "move_to_audit"
	EdgeComplete           Edge = "complete"
	EdgeForceCompletion    Edge = "force_completion"
	EdgeContinueLooping    Edge = "continue_looping"
)

// ForcedCompletionNote is appended to the run log when the iteration ceiling
// cuts a run short.
const ForcedCompletionNote = "Maximum iterations reached. Forcing completion with current architecture."

// PhaseTransition is one rule of the pipeline's phase table: from a phase,
// an edge label leads to a phase.
type PhaseTransition struct {
	From        state.Phase
	Edge        Edge
	To          state.Phase
	Description string
}

// Transitions returns the phase table of the pipeline. Every edge a router
// can emit has a rule here for the phase it fires in; the continue and
// evaluate edges keep the run in place, and the remaining edges are the only
// ways between phases.
func Transitions() []PhaseTransition {
	return []PhaseTransition{
		// Generate: architect fan-out plus the retry and ceiling edges.
		{state.PhaseGenerate, EdgeMoveToValidation, state.PhaseValidate, "every relevant architect reported"},
		{state.PhaseGenerate, EdgeContinueGeneration, state.PhaseGenerate, "architects still working"},
		{state.PhaseGenerate, EdgeContinueLooping, state.PhaseGenerate, "retry pass within the iteration ceiling"},
		{state.PhaseGenerate, EdgeForceCompletion, state.PhaseComplete, "iteration ceiling reached"},
		{state.PhaseGenerate, EdgeComplete, state.PhaseComplete, "no quality-gate flags outstanding"},

		// Validate: validator fan-out and the factual-error gate.
		{state.PhaseValidate, EdgeEvaluateValidation, state.PhaseValidate, "every relevant validator reported"},
		{state.PhaseValidate, EdgeContinueValidation, state.PhaseValidate, "validators still working"},
		{state.PhaseValidate, EdgeMoveToAudit, state.PhaseAudit, "validation gate passed"},
		{state.PhaseValidate, EdgeReturnToArchitects, state.PhaseGenerate, "factual errors reported"},

		// Audit: auditor fan-out and the design-flaw gate.
		{state.PhaseAudit, EdgeEvaluateAudit, state.PhaseAudit, "all five auditors reported"},
		{state.PhaseAudit, EdgeContinueAudit, state.PhaseAudit, "auditors still working"},
		{state.PhaseAudit, EdgeComplete, state.PhaseComplete, "audit gate passed"},
		{state.PhaseAudit, EdgeReturnToArchitects, state.PhaseGenerate, "design flaws reported"},
	}
}

// Transition resolves the phase an edge leads to from the given phase. The
// boolean reports whether the table has a rule for the pair; an unknown pair
// leaves the phase unchanged.
func Transition(from state.Phase, edge Edge) (state.Phase, bool) {
	for _, t := range Transitions() {
		if t.From == from && t.Edge == edge {
			return t.To, true
		}
	}
	return from, false
}

// RequiredAgents returns the agent set the current phase must finish before
// the run can move on. Generate and validate scope to the relevance-filtered
// domains; audit always requires all five pillar auditors.
func RequiredAgents(s state.WorkflowState) []string {
	switch s.CurrentPhase {
	case state.PhaseGenerate:
		return relevance.Architects(relevance.RelevantDomains(s.UserProblem))
	case state.PhaseValidate:
		return relevance.Validators(relevance.RelevantDomains(s.UserProblem))
	case state.PhaseAudit:
		return relevance.Auditors()
	default:
		return nil
	}
}

func allCompleted(s state.WorkflowState, required []string) bool {
	for _, agent := range required {
		if !s.AgentCompleted(agent) {
			return false
		}
	}
	return true
}

// AgentCompletionRouter decides whether the current phase has finished. A
// "move on" edge is returned only when the completed set covers every
// required agent; extra completion markers never block the move.
func AgentCompletionRouter(s state.WorkflowState) Edge {
	done := allCompleted(s, RequiredAgents(s))

	switch s.CurrentPhase {
	case state.PhaseGenerate:
		if done {
			return EdgeMoveToValidation
		}
		return EdgeContinueGeneration
	case state.PhaseValidate:
		if done {
			return EdgeEvaluateValidation
		}
		return EdgeContinueValidation
	case state.PhaseAudit:
		if done {
			return EdgeEvaluateAudit
		}
		return EdgeContinueAudit
	default:
		return EdgeContinueGeneration
	}
}

// EvaluateValidationFeedback decides the edge out of the validate phase.
// Any validator-reported factual error sends the run back to the architects
// and raises FactualErrorsExist; otherwise the run moves to audit.
func EvaluateValidationFeedback(s *state.WorkflowState) Edge {
	if (gates.ValidationGate{}).Evaluate(*s).Passed {
		return EdgeMoveToAudit
	}
	s.FactualErrorsExist = true
	return EdgeReturnToArchitects
}

// EvaluateAuditFeedback decides the edge out of the audit phase. Any
// auditor-reported design flaw sends the run back to the architects and
// raises DesignFlawsExist; otherwise the run completes.
func EvaluateAuditFeedback(s *state.WorkflowState) Edge {
	if (gates.AuditGate{}).Evaluate(*s).Passed {
		return EdgeComplete
	}
	s.DesignFlawsExist = true
	return EdgeReturnToArchitects
}

// ShouldContinueLooping is consulted after a return-to-architects edge, once
// the iteration counter has been advanced. The ceiling wins over any
// outstanding quality-gate flag.
func ShouldContinueLooping(s state.WorkflowState, maxIterations int) Edge {
	if !(gates.IterationGate{MaxIterations: maxIterations}).Evaluate(s).Passed {
		return EdgeForceCompletion
	}
	if s.FactualErrorsExist || s.DesignFlawsExist {
		return EdgeContinueLooping
	}
	return EdgeComplete
}

// ForceCompletion ends a run that has used up its generate passes. The
// current architecture stands and the cutoff is recorded in the run log.
func ForceCompletion(s *state.WorkflowState) {
	s.CurrentPhase = state.PhaseComplete
	s.AppendMessage(state.RoleSystem, ForcedCompletionNote)
}
