// Package gates implements the quality gates that decide whether a design
// run may advance. A failed gate is not an error: it is the signal that
// sends the run back to the architects or, at the iteration ceiling, forces
// completion with whatever architecture exists.
package gates

import (
	"fmt"
	"strings"

	"cloudy-intel/internal/state"
)

// GateType identifies which quality gate produced a verdict.
type GateType string

const (
	// GateValidation checks validator feedback for reported factual errors.
	GateValidation GateType = "validation_feedback"

	// GateAudit checks auditor feedback for reported design flaws.
	GateAudit GateType = "audit_feedback"

	// GateIteration bounds the number of generate passes a run may take.
	GateIteration GateType = "iteration_ceiling"
)

// Verdict is the outcome of one gate evaluation.
type Verdict struct {
	Gate   GateType
	Passed bool
	Reason string
}

// Gate evaluates one quality dimension of a run.
type Gate interface {
	// Evaluate inspects the state and returns a verdict. Total: every state
	// yields a verdict.
	Evaluate(s state.WorkflowState) Verdict

	// Type returns which gate this is.
	Type() GateType

	// Name returns a human-readable name.
	Name() string
}

// ValidationGate fails when any validator reported factual errors.
type ValidationGate struct{}

func (ValidationGate) Type() GateType { return GateValidation }
func (ValidationGate) Name() string   { return "Validation Feedback Gate" }

func (ValidationGate) Evaluate(s state.WorkflowState) Verdict {
	var reporters []string
	for _, fb := range s.ValidationFeedback {
		if fb.HasErrors {
			reporters = append(reporters, fb.Agent)
		}
	}
	if len(reporters) == 0 {
		return Verdict{Gate: GateValidation, Passed: true, Reason: "no factual errors reported"}
	}
	return Verdict{
		Gate:   GateValidation,
		Passed: false,
		Reason: "factual errors reported by " + strings.Join(reporters, ", "),
	}
}

// AuditGate fails when any auditor reported design flaws.
type AuditGate struct{}

func (AuditGate) Type() GateType { return GateAudit }
func (AuditGate) Name() string   { return "Audit Feedback Gate" }

func (AuditGate) Evaluate(s state.WorkflowState) Verdict {
	var reporters []string
	for _, fb := range s.AuditFeedback {
		if fb.HasFlaws {
			reporters = append(reporters, fb.Agent)
		}
	}
	if len(reporters) == 0 {
		return Verdict{Gate: GateAudit, Passed: true, Reason: "no design flaws reported"}
	}
	return Verdict{
		Gate:   GateAudit,
		Passed: false,
		Reason: "design flaws reported by " + strings.Join(reporters, ", "),
	}
}

// IterationGate fails once the run has used up its generate passes. The
// ceiling is the only structural bound on the generate/validate/audit loop.
type IterationGate struct {
	MaxIterations int
}

func (IterationGate) Type() GateType { return GateIteration }
func (IterationGate) Name() string   { return "Iteration Ceiling Gate" }

func (g IterationGate) Evaluate(s state.WorkflowState) Verdict {
	if s.WithinIterationLimit(g.MaxIterations) {
		return Verdict{
			Gate:   GateIteration,
			Passed: true,
			Reason: fmt.Sprintf("iteration %d of %d", s.IterationCount, g.MaxIterations),
		}
	}
	return Verdict{
		Gate:   GateIteration,
		Passed: false,
		Reason: fmt.Sprintf("iteration ceiling of %d reached", g.MaxIterations),
	}
}
