// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"

	"cloudy-intel/internal/llm"
	"cloudy-intel/internal/metrics"
	"cloudy-intel/internal/prompts"
	"cloudy-intel/internal/rag"
	"cloudy-intel/internal/relevance"
	"cloudy-intel/internal/state"
	"cloudy-intel/internal/store"
	"cloudy-intel/internal/telemetry"
	"cloudy-intel/internal/tools"
)

// agentTracer names the tracer every pipeline activity reports spans under.
const agentTracer = "activity.agents"

// ActivityDeps carries the shared dependencies of the pipeline activities.
type ActivityDeps struct {
	// LLM is the completion client every agent runs on
	LLM llm.Client

	// Docs searches the documentation index. Nil disables the doc tools.
	Docs rag.Searcher

	// Web is the web search tool. Nil disables web search.
	Web tools.Tool

	// Store persists checkpoints. Nil disables persistence.
	Store *store.SQLiteStore

	// Metrics records pipeline observations. Nil means no recording.
	Metrics metrics.Recorder

	// Temperature is applied to every completion call
	Temperature float64

	// MaxTokens caps completion output. Zero uses provider defaults.
	MaxTokens int
}

// Activities implements the agent activations of the design pipeline. One
// activation is one LLM completion, preceded by research tool calls for the
// domain and pillar agents.
type Activities struct {
	llm         llm.Client
	docs        rag.Searcher
	web         tools.Tool
	store       *store.SQLiteStore
	metrics     metrics.Recorder
	temperature float64
	maxTokens   int
}

// NewActivities creates the pipeline activities with their dependencies.
func NewActivities(deps ActivityDeps) *Activities {
	return &Activities{
		llm:         deps.LLM,
		docs:        deps.Docs,
		web:         deps.Web,
		store:       deps.Store,
		metrics:     deps.Metrics,
		temperature: deps.Temperature,
		maxTokens:   deps.MaxTokens,
	}
}

func (a *Activities) recorder() metrics.Recorder {
	if a.metrics == nil {
		return metrics.NoopRecorder{}
	}
	return a.metrics
}

// complete runs one LLM completion and records the activation.
func (a *Activities) complete(ctx context.Context, agentID string, phase state.Phase, prompt string) (string, error) {
	start := time.Now()
	out, err := a.llm.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	a.recorder().ObserveAgentRun(agentID, string(phase), a.llm.ModelName(), err == nil, time.Since(start))
	if err != nil {
		telemetry.RecordError(ctx, err, telemetry.AgentAttrs(agentID, a.llm.ModelName())...)
		return "", fmt.Errorf("%s completion failed: %w", agentID, err)
	}

	attrs := telemetry.AgentAttrs(agentID, a.llm.ModelName())
	attrs = append(attrs, telemetry.AttrResponseLength.Int(len(out)))
	attrs = append(attrs, telemetry.DurationAttrs(time.Since(start))...)
	telemetry.AddEvent(ctx, "llm.completion", attrs...)
	return out, nil
}

// toolset assembles a role's research tools: its documentation tools plus
// web search, each instrumented for metrics.
func (a *Activities) toolset(docTools func(rag.Searcher) []tools.Tool) []tools.Tool {
	var set []tools.Tool
	if a.docs != nil {
		set = append(set, docTools(a.docs)...)
	}
	if a.web != nil {
		set = append(set, a.web)
	}
	instrumented := make([]tools.Tool, len(set))
	for i, t := range set {
		t := t
		instrumented[i] = tools.Func{
			ToolName:        t.Name(),
			ToolDescription: t.Description(),
			Fn: func(ctx context.Context, query string) (string, error) {
				out, err := t.Run(ctx, query)
				a.recorder().ObserveToolCall(t.Name(), err == nil)
				if err != nil {
					telemetry.AddEvent(ctx, "tool.failed",
						append(telemetry.ErrorAttrs(err), telemetry.AttrToolName.String(t.Name()))...)
				}
				return out, err
			},
		}
	}
	return instrumented
}

// RunArchitectSupervisor analyzes the problem, decomposes it into per-domain
// tasks for the relevant architects, and names the architect set the
// generate pass requires.
func (a *Activities) RunArchitectSupervisor(ctx context.Context, input *SupervisorInput) (*ArchitectSupervisorResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunArchitectSupervisor",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseGenerate), ws.IterationCount)...))
	defer span.End()

	logger.Info("Running architect supervisor",
		"session", ws.SessionID,
		"iteration", ws.IterationCount)
	activity.RecordHeartbeat(ctx, "supervisor_analysis_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleArchitectSupervisor, prompts.Request{State: ws})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	analysis, err := a.complete(ctx, state.AgentArchitectSupervisor, state.PhaseGenerate, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	domains := relevance.RelevantDomains(ws.UserProblem)
	tasks := make([]state.DecomposedTask, 0, len(domains))
	for _, d := range domains {
		tasks = append(tasks, prompts.BuildDecomposedTask(analysis, d, ws.UserProblem, ws.CloudProvider))
	}

	span.SetAttributes(
		attribute.Int("domains", len(domains)),
		telemetry.AttrResponseLength.Int(len(analysis)),
	)
	logger.Info("Architect supervisor decomposed problem",
		"domains", len(domains),
		"analysis_length", len(analysis))

	return &ArchitectSupervisorResult{
		Response:     state.Message{Role: state.RoleAssistant, Content: analysis},
		Tasks:        tasks,
		Domains:      domains,
		ActiveAgents: relevance.Architects(domains),
	}, nil
}

// RunDomainArchitect produces one domain's architecture component. The
// architect researches the problem through its toolset and folds the
// gathered context into its prompt.
func (a *Activities) RunDomainArchitect(ctx context.Context, input *AgentInput) (*ArchitectResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State
	agentID := state.ArchitectAgent(input.Domain)

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunDomainArchitect",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseGenerate), ws.IterationCount)...),
		trace.WithAttributes(
			telemetry.AttrAgent.String(agentID),
			telemetry.AttrDomain.String(string(input.Domain)),
		))
	defer span.End()

	logger.Info("Running domain architect",
		"agent", agentID,
		"session", ws.SessionID,
		"iteration", ws.IterationCount)
	activity.RecordHeartbeat(ctx, "research_started")

	contextText := tools.GatherContext(ctx, a.toolset(rag.ArchitectTools), ws.UserProblem)
	activity.RecordHeartbeat(ctx, "completion_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleDomainArchitect, prompts.Request{
		State:   ws,
		Domain:  input.Domain,
		Context: contextText,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	recommendations, err := a.complete(ctx, agentID, state.PhaseGenerate, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "component produced")
	return &ArchitectResult{
		Agent:  agentID,
		Domain: input.Domain,
		Component: state.Component{
			Recommendations: recommendations,
			Agent:           agentID,
		},
		Response: state.Message{Role: state.RoleAssistant, Content: recommendations},
	}, nil
}

// RunValidatorSupervisor coordinates the validation pass and names the
// validator set it requires.
func (a *Activities) RunValidatorSupervisor(ctx context.Context, input *SupervisorInput) (*CoordinatorResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunValidatorSupervisor",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseValidate), ws.IterationCount)...))
	defer span.End()

	logger.Info("Running validator supervisor", "session", ws.SessionID)
	activity.RecordHeartbeat(ctx, "supervisor_analysis_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleValidatorSupervisor, prompts.Request{State: ws})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	coordination, err := a.complete(ctx, state.AgentValidatorSupervisor, state.PhaseValidate, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	domains := relevance.RelevantDomains(ws.UserProblem)
	return &CoordinatorResult{
		Response:     state.Message{Role: state.RoleAssistant, Content: coordination},
		Domains:      domains,
		ActiveAgents: relevance.Validators(domains),
	}, nil
}

// RunDomainValidator checks one domain component for factual correctness.
// The HasErrors flag comes from the response keyword heuristic.
func (a *Activities) RunDomainValidator(ctx context.Context, input *AgentInput) (*ValidatorResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State
	agentID := state.ValidatorAgent(input.Domain)

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunDomainValidator",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseValidate), ws.IterationCount)...),
		trace.WithAttributes(
			telemetry.AttrAgent.String(agentID),
			telemetry.AttrDomain.String(string(input.Domain)),
		))
	defer span.End()

	logger.Info("Running domain validator",
		"agent", agentID,
		"session", ws.SessionID)
	activity.RecordHeartbeat(ctx, "research_started")

	contextText := tools.GatherContext(ctx, a.toolset(rag.ValidatorTools), ws.UserProblem)
	activity.RecordHeartbeat(ctx, "completion_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleDomainValidator, prompts.Request{
		State:   ws,
		Domain:  input.Domain,
		Context: contextText,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	verdict, err := a.complete(ctx, agentID, state.PhaseValidate, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hasErrors := ValidatorReportsErrors(verdict)
	span.SetAttributes(attribute.Bool("has_errors", hasErrors))
	logger.Info("Domain validator finished", "agent", agentID, "has_errors", hasErrors)

	return &ValidatorResult{
		Agent:  agentID,
		Domain: input.Domain,
		Feedback: state.ValidationFeedback{
			Domain:    input.Domain,
			Agent:     agentID,
			Feedback:  verdict,
			HasErrors: hasErrors,
		},
		Response: state.Message{Role: state.RoleAssistant, Content: verdict},
	}, nil
}

// RunAuditSupervisor coordinates the audit pass. The auditor set is always
// all five pillars.
func (a *Activities) RunAuditSupervisor(ctx context.Context, input *SupervisorInput) (*CoordinatorResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunAuditSupervisor",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseAudit), ws.IterationCount)...))
	defer span.End()

	logger.Info("Running audit supervisor", "session", ws.SessionID)
	activity.RecordHeartbeat(ctx, "supervisor_analysis_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleAuditSupervisor, prompts.Request{State: ws})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	coordination, err := a.complete(ctx, state.AgentAuditSupervisor, state.PhaseAudit, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &CoordinatorResult{
		Response:     state.Message{Role: state.RoleAssistant, Content: coordination},
		ActiveAgents: relevance.Auditors(),
	}, nil
}

// RunPillarAuditor audits the whole architecture against one pillar. The
// HasFlaws flag comes from the pillar's keyword vocabulary.
func (a *Activities) RunPillarAuditor(ctx context.Context, input *AuditorInput) (*AuditorResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State
	agentID := state.AuditorAgent(input.Pillar)

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunPillarAuditor",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseAudit), ws.IterationCount)...),
		trace.WithAttributes(
			telemetry.AttrAgent.String(agentID),
			telemetry.AttrPillar.String(string(input.Pillar)),
		))
	defer span.End()

	logger.Info("Running pillar auditor",
		"agent", agentID,
		"session", ws.SessionID)
	activity.RecordHeartbeat(ctx, "research_started")

	contextText := tools.GatherContext(ctx, a.toolset(rag.AuditorTools), ws.UserProblem)
	activity.RecordHeartbeat(ctx, "completion_started")

	prompt, err := prompts.BuildPrompt(prompts.RolePillarAuditor, prompts.Request{
		State:   ws,
		Pillar:  input.Pillar,
		Context: contextText,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	verdict, err := a.complete(ctx, agentID, state.PhaseAudit, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hasFlaws := AuditorReportsFlaws(input.Pillar, verdict)
	span.SetAttributes(attribute.Bool("has_flaws", hasFlaws))
	logger.Info("Pillar auditor finished", "agent", agentID, "has_flaws", hasFlaws)

	return &AuditorResult{
		Agent:  agentID,
		Pillar: input.Pillar,
		Feedback: state.AuditFeedback{
			Pillar:   input.Pillar,
			Agent:    agentID,
			Feedback: verdict,
			HasFlaws: hasFlaws,
		},
		Response: state.Message{Role: state.RoleAssistant, Content: verdict},
	}, nil
}

// RunFinalPresenter synthesizes the approved architecture into the final
// report. It runs on forced completions too.
func (a *Activities) RunFinalPresenter(ctx context.Context, input *SupervisorInput) (*PresenterResult, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	logger := activity.GetLogger(ctx)
	ws := input.State

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "RunFinalPresenter",
		trace.WithAttributes(telemetry.PipelineAttrs(ws.SessionID, string(state.PhaseComplete), ws.IterationCount)...))
	defer span.End()

	logger.Info("Running final presenter",
		"session", ws.SessionID,
		"iterations", ws.IterationCount)
	activity.RecordHeartbeat(ctx, "presentation_started")

	prompt, err := prompts.BuildPrompt(prompts.RoleFinalPresenter, prompts.Request{State: ws})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	summary, err := a.complete(ctx, state.AgentFinalPresenter, state.PhaseComplete, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Phase complete before the presenter means ForceCompletion already ran.
	forced := ws.CurrentPhase == state.PhaseComplete
	a.recorder().ObserveRunComplete(ws.CloudProvider, forced, ws.IterationCount)
	span.SetAttributes(attribute.Bool("forced", forced))

	return &PresenterResult{
		Summary:  summary,
		Response: state.Message{Role: state.RoleAssistant, Content: summary},
	}, nil
}

// SaveCheckpoint persists the run state. Disabled when no store is wired.
func (a *Activities) SaveCheckpoint(ctx context.Context, ws state.WorkflowState) error {
	if a.store == nil {
		return nil
	}
	logger := activity.GetLogger(ctx)
	info := activity.GetInfo(ctx)

	ctx, span := telemetry.StartSpan(ctx, agentTracer, "SaveCheckpoint",
		trace.WithAttributes(telemetry.WorkflowAttrs(
			info.WorkflowExecution.ID, info.WorkflowType.Name, info.WorkflowExecution.RunID)...),
		trace.WithAttributes(
			telemetry.AttrSessionID.String(ws.SessionID),
			telemetry.AttrPhase.String(string(ws.CurrentPhase)),
			telemetry.AttrCloudProvider.String(ws.CloudProvider),
		))
	defer span.End()

	if err := a.store.CreateSession(ctx, ws.SessionID, ws.UserProblem, ws.CloudProvider); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to record session: %w", err)
	}
	if err := a.store.SaveCheckpoint(ctx, ws); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	if ws.CurrentPhase == state.PhaseComplete {
		if err := a.store.SetSessionStatus(ctx, ws.SessionID, store.StatusComplete); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to update session status: %w", err)
		}
	}

	logger.Debug("Checkpoint saved",
		"session", ws.SessionID,
		"phase", ws.CurrentPhase,
		"iteration", ws.IterationCount)
	return nil
}
