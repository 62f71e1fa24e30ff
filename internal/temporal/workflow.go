// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"fmt"
	"strings"

	"go.temporal.io/sdk/workflow"

	"cloudy-intel/internal/relevance"
	"cloudy-intel/internal/routing"
	"cloudy-intel/internal/state"
)

// DesignWorkflow runs one design pipeline: generate, validate, audit, with
// regeneration on failed quality gates and forced completion at the
// iteration ceiling. The presenter runs on every path, so a run always ends
// with an architecture and a report.
//
// Each phase is a small task graph: a coordinator node followed by a fan-out
// wave of its agent team. The graphs are built once per run from the problem
// text (relevance is a pure function of it), and a PhasePlan executes each
// one, so activity scheduling and state merging happen in the same order on
// every replay.
func DesignWorkflow(ctx workflow.Context, req DesignRequest) (*DesignResult, error) {
	logger := workflow.GetLogger(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	maxIterations := req.MaxIterations
	if maxIterations == 0 {
		maxIterations = state.DefaultMaxIterations
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	provider := strings.ToLower(req.CloudProvider)

	logger.Info("Starting design pipeline",
		"session", sessionID,
		"provider", provider,
		"max_iterations", maxIterations)

	ws := state.New(req.Problem, provider, sessionID, workflow.Now(ctx))

	domains := relevance.RelevantDomains(ws.UserProblem)
	genPlan, err := NewFanOutPlan(state.AgentArchitectSupervisor, relevance.Architects(domains))
	if err != nil {
		return nil, fmt.Errorf("building generate plan: %w", err)
	}
	valPlan, err := NewFanOutPlan(state.AgentValidatorSupervisor, relevance.Validators(domains))
	if err != nil {
		return nil, fmt.Errorf("building validate plan: %w", err)
	}
	audPlan, err := NewFanOutPlan(state.AgentAuditSupervisor, relevance.Auditors())
	if err != nil {
		return nil, fmt.Errorf("building audit plan: %w", err)
	}

	ctx = WithAgentOptions(ctx)
	acts := &Activities{}
	forced := false

GenerateLoop:
	for {
		// Generate: the supervisor decomposes the problem, then the
		// relevant architects fan out.
		if err := genPlan.Execute(ctx, &generateRun{acts: acts, ws: &ws}); err != nil {
			return nil, err
		}
		if edge := routing.AgentCompletionRouter(ws); edge != routing.EdgeMoveToValidation {
			return nil, fmt.Errorf("generate pass left agents unfinished: %s", edge)
		}
		saveCheckpoint(ctx, acts, ws)

		// Validate: the supervisor coordinates, then the relevant
		// validators fan out.
		if err := valPlan.Execute(ctx, &validateRun{acts: acts, ws: &ws}); err != nil {
			return nil, err
		}
		if edge := routing.AgentCompletionRouter(ws); edge != routing.EdgeEvaluateValidation {
			return nil, fmt.Errorf("validate pass left agents unfinished: %s", edge)
		}
		saveCheckpoint(ctx, acts, ws)

		// The validation verdict routes through the phase table: factual
		// errors send the run back to generate, a pass moves it on to audit.
		next, err := followEdge(ws, routing.EvaluateValidationFeedback(&ws))
		if err != nil {
			return nil, err
		}
		if next == state.PhaseGenerate {
			logger.Info("Validators reported factual errors, returning to architects",
				"iteration", ws.IterationCount)
			ws.PrepareRetry(state.PhaseValidate)
			if routing.ShouldContinueLooping(ws, maxIterations) == routing.EdgeForceCompletion {
				routing.ForceCompletion(&ws)
				forced = true
				logger.Warn("Iteration ceiling reached, forcing completion",
					"iterations", ws.IterationCount)
				break GenerateLoop
			}
			continue GenerateLoop
		}

		// Audit: the supervisor coordinates, then all five pillar
		// auditors fan out.
		if err := audPlan.Execute(ctx, &auditRun{acts: acts, ws: &ws}); err != nil {
			return nil, err
		}
		if edge := routing.AgentCompletionRouter(ws); edge != routing.EdgeEvaluateAudit {
			return nil, fmt.Errorf("audit pass left agents unfinished: %s", edge)
		}
		saveCheckpoint(ctx, acts, ws)

		next, err = followEdge(ws, routing.EvaluateAuditFeedback(&ws))
		if err != nil {
			return nil, err
		}
		if next == state.PhaseGenerate {
			logger.Info("Auditors reported design flaws, returning to architects",
				"iteration", ws.IterationCount)
			ws.PrepareRetry(state.PhaseAudit)
			if routing.ShouldContinueLooping(ws, maxIterations) == routing.EdgeForceCompletion {
				routing.ForceCompletion(&ws)
				forced = true
				logger.Warn("Iteration ceiling reached, forcing completion",
					"iterations", ws.IterationCount)
				break GenerateLoop
			}
			continue GenerateLoop
		}

		// Both quality gates passed.
		break GenerateLoop
	}

	// The presenter runs on clean and forced completions alike.
	var pres PresenterResult
	if err := workflow.ExecuteActivity(ctx, acts.RunFinalPresenter, &SupervisorInput{State: ws}).Get(ctx, &pres); err != nil {
		return nil, fmt.Errorf("final presenter failed: %w", err)
	}
	ws.AppendMessage(pres.Response.Role, pres.Response.Content)
	ws.Finalize(pres.Summary)
	saveCheckpoint(ctx, acts, ws)

	logger.Info("Design pipeline finished",
		"session", sessionID,
		"iterations", ws.IterationCount,
		"forced", forced)

	return &DesignResult{
		SessionID:          sessionID,
		Problem:            ws.UserProblem,
		CloudProvider:      ws.CloudProvider,
		Phase:              ws.CurrentPhase,
		Summary:            ws.ArchitectureSummary,
		FinalArchitecture:  ws.FinalArchitecture,
		IterationsUsed:     ws.IterationCount,
		Forced:             forced,
		FactualErrorsExist: ws.FactualErrorsExist,
		DesignFlawsExist:   ws.DesignFlawsExist,
		ValidationFeedback: ws.ValidationFeedback,
		AuditFeedback:      ws.AuditFeedback,
		Messages:           ws.Messages,
	}, nil
}

// generateRun binds the generate-phase plan to the architect activities.
// The coordinator's delta installs task assignments and opens the phase
// before the architect wave starts, so every architect sees its assignment.
type generateRun struct {
	acts *Activities
	ws   *state.WorkflowState
}

func (r *generateRun) Start(ctx workflow.Context, task string) workflow.Future {
	if task == state.AgentArchitectSupervisor {
		return workflow.ExecuteActivity(ctx, r.acts.RunArchitectSupervisor, &SupervisorInput{State: *r.ws})
	}
	if d, ok := state.ArchitectDomain(task); ok {
		return workflow.ExecuteActivity(ctx, r.acts.RunDomainArchitect, &AgentInput{State: *r.ws, Domain: d})
	}
	return nil
}

func (r *generateRun) Apply(ctx workflow.Context, task string, f workflow.Future) error {
	if task == state.AgentArchitectSupervisor {
		var sup ArchitectSupervisorResult
		if err := f.Get(ctx, &sup); err != nil {
			return err
		}
		r.ws.AppendMessage(sup.Response.Role, sup.Response.Content)
		for _, t := range sup.Tasks {
			r.ws.AssignTask(t.Domain, t)
		}
		r.ws.BeginPhase(state.PhaseGenerate, sup.ActiveAgents)
		return nil
	}
	var res ArchitectResult
	if err := f.Get(ctx, &res); err != nil {
		return err
	}
	r.ws.AppendMessage(res.Response.Role, res.Response.Content)
	r.ws.SetComponent(res.Domain, res.Component)
	r.ws.MarkAgentComplete(res.Agent)
	return nil
}

// validateRun binds the validate-phase plan to the validator activities.
type validateRun struct {
	acts *Activities
	ws   *state.WorkflowState
}

func (r *validateRun) Start(ctx workflow.Context, task string) workflow.Future {
	if task == state.AgentValidatorSupervisor {
		return workflow.ExecuteActivity(ctx, r.acts.RunValidatorSupervisor, &SupervisorInput{State: *r.ws})
	}
	if d, ok := state.ValidatorDomain(task); ok {
		return workflow.ExecuteActivity(ctx, r.acts.RunDomainValidator, &AgentInput{State: *r.ws, Domain: d})
	}
	return nil
}

func (r *validateRun) Apply(ctx workflow.Context, task string, f workflow.Future) error {
	if task == state.AgentValidatorSupervisor {
		var sup CoordinatorResult
		if err := f.Get(ctx, &sup); err != nil {
			return err
		}
		r.ws.AppendMessage(sup.Response.Role, sup.Response.Content)
		r.ws.BeginPhase(state.PhaseValidate, sup.ActiveAgents)
		return nil
	}
	var res ValidatorResult
	if err := f.Get(ctx, &res); err != nil {
		return err
	}
	r.ws.AppendMessage(res.Response.Role, res.Response.Content)
	r.ws.AddValidationFeedback(res.Feedback)
	r.ws.MarkAgentComplete(res.Agent)
	return nil
}

// auditRun binds the audit-phase plan to the auditor activities.
type auditRun struct {
	acts *Activities
	ws   *state.WorkflowState
}

func (r *auditRun) Start(ctx workflow.Context, task string) workflow.Future {
	if task == state.AgentAuditSupervisor {
		return workflow.ExecuteActivity(ctx, r.acts.RunAuditSupervisor, &SupervisorInput{State: *r.ws})
	}
	if p, ok := state.AuditorPillar(task); ok {
		return workflow.ExecuteActivity(ctx, r.acts.RunPillarAuditor, &AuditorInput{State: *r.ws, Pillar: p})
	}
	return nil
}

func (r *auditRun) Apply(ctx workflow.Context, task string, f workflow.Future) error {
	if task == state.AgentAuditSupervisor {
		var sup CoordinatorResult
		if err := f.Get(ctx, &sup); err != nil {
			return err
		}
		r.ws.AppendMessage(sup.Response.Role, sup.Response.Content)
		r.ws.BeginPhase(state.PhaseAudit, sup.ActiveAgents)
		return nil
	}
	var res AuditorResult
	if err := f.Get(ctx, &res); err != nil {
		return err
	}
	r.ws.AppendMessage(res.Response.Role, res.Response.Content)
	r.ws.AddAuditFeedback(res.Feedback)
	r.ws.MarkAgentComplete(res.Agent)
	return nil
}

// followEdge resolves an edge against the phase table. An edge with no rule
// from the current phase means the routers and the table have drifted apart.
func followEdge(ws state.WorkflowState, edge routing.Edge) (state.Phase, error) {
	next, ok := routing.Transition(ws.CurrentPhase, edge)
	if !ok {
		return "", fmt.Errorf("no transition for edge %q from phase %s", edge, ws.CurrentPhase)
	}
	return next, nil
}

// saveCheckpoint persists state without failing the run on storage errors.
func saveCheckpoint(ctx workflow.Context, acts *Activities, ws state.WorkflowState) {
	cctx := WithCheckpointOptions(ctx)
	if err := workflow.ExecuteActivity(cctx, acts.SaveCheckpoint, ws).Get(cctx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("Checkpoint save failed", "error", err)
	}
}
