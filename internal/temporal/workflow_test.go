// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"cloudy-intel/internal/prompts"
	"cloudy-intel/internal/relevance"
	"cloudy-intel/internal/routing"
	"cloudy-intel/internal/state"
)

// fourDomainProblem matches all four domain keyword lists explicitly.
const fourDomainProblem = "Design a web application with a postgres database, object storage for images, and a CDN network"

// storageOnlyProblem matches only the storage keyword list.
const storageOnlyProblem = "Keep long term backups in cheap cold storage tiers"

const presenterSummary = "Executive summary of the approved architecture."

// registerPipelineMocks installs domain-aware activity stubs. Validator and
// auditor verdicts come from the callbacks so each test can steer the
// quality gates; the HasErrors/HasFlaws flags go through the real keyword
// heuristics.
func registerPipelineMocks(env *testsuite.TestWorkflowEnvironment,
	validatorVerdict func(input *AgentInput) string,
	auditorVerdict func(input *AuditorInput) string) {

	acts := &Activities{}

	env.OnActivity(acts.RunArchitectSupervisor, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *SupervisorInput) (*ArchitectSupervisorResult, error) {
			domains := relevance.RelevantDomains(input.State.UserProblem)
			tasks := make([]state.DecomposedTask, 0, len(domains))
			for _, d := range domains {
				tasks = append(tasks, prompts.BuildDecomposedTask("Split the problem by domain.", d, input.State.UserProblem, input.State.CloudProvider))
			}
			return &ArchitectSupervisorResult{
				Response:     state.Message{Role: state.RoleAssistant, Content: "Split the problem by domain."},
				Tasks:        tasks,
				Domains:      domains,
				ActiveAgents: relevance.Architects(domains),
			}, nil
		})

	env.OnActivity(acts.RunDomainArchitect, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *AgentInput) (*ArchitectResult, error) {
			agentID := state.ArchitectAgent(input.Domain)
			rec := "Use managed " + string(input.Domain) + " services."
			return &ArchitectResult{
				Agent:     agentID,
				Domain:    input.Domain,
				Component: state.Component{Recommendations: rec, Agent: agentID},
				Response:  state.Message{Role: state.RoleAssistant, Content: rec},
			}, nil
		})

	env.OnActivity(acts.RunValidatorSupervisor, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *SupervisorInput) (*CoordinatorResult, error) {
			domains := relevance.RelevantDomains(input.State.UserProblem)
			return &CoordinatorResult{
				Response:     state.Message{Role: state.RoleAssistant, Content: "Validate each produced component."},
				Domains:      domains,
				ActiveAgents: relevance.Validators(domains),
			}, nil
		})

	env.OnActivity(acts.RunDomainValidator, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *AgentInput) (*ValidatorResult, error) {
			agentID := state.ValidatorAgent(input.Domain)
			verdict := validatorVerdict(input)
			return &ValidatorResult{
				Agent:  agentID,
				Domain: input.Domain,
				Feedback: state.ValidationFeedback{
					Domain:    input.Domain,
					Agent:     agentID,
					Feedback:  verdict,
					HasErrors: ValidatorReportsErrors(verdict),
				},
				Response: state.Message{Role: state.RoleAssistant, Content: verdict},
			}, nil
		})

	env.OnActivity(acts.RunAuditSupervisor, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *SupervisorInput) (*CoordinatorResult, error) {
			return &CoordinatorResult{
				Response:     state.Message{Role: state.RoleAssistant, Content: "Audit the architecture on every pillar."},
				ActiveAgents: relevance.Auditors(),
			}, nil
		})

	env.OnActivity(acts.RunPillarAuditor, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *AuditorInput) (*AuditorResult, error) {
			agentID := state.AuditorAgent(input.Pillar)
			verdict := auditorVerdict(input)
			return &AuditorResult{
				Agent:  agentID,
				Pillar: input.Pillar,
				Feedback: state.AuditFeedback{
					Pillar:   input.Pillar,
					Agent:    agentID,
					Feedback: verdict,
					HasFlaws: AuditorReportsFlaws(input.Pillar, verdict),
				},
				Response: state.Message{Role: state.RoleAssistant, Content: verdict},
			}, nil
		})

	env.OnActivity(acts.RunFinalPresenter, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, input *SupervisorInput) (*PresenterResult, error) {
			return &PresenterResult{
				Summary:  presenterSummary,
				Response: state.Message{Role: state.RoleAssistant, Content: presenterSummary},
			}, nil
		})

	env.OnActivity(acts.SaveCheckpoint, mock.Anything, mock.Anything).Return(nil)
}

func cleanValidatorVerdict(*AgentInput) string {
	return "All configurations verified correct and compatible."
}

// cleanAuditorVerdict avoids each pillar's own signal vocabulary.
func cleanAuditorVerdict(input *AuditorInput) string {
	switch input.Pillar {
	case state.PillarSecurity:
		return "Encryption and IAM boundaries are configured correctly."
	case state.PillarCost:
		return "Spend stays inside the expected budget envelope."
	case state.PillarReliability:
		return "Failover coverage across zones is solid."
	case state.PillarPerformance:
		return "Latency targets are met under projected load."
	default:
		return "Runbooks and alerting are in place."
	}
}

func TestDesignWorkflow_CleanRun(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	registerPipelineMocks(env, cleanValidatorVerdict, cleanAuditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       fourDomainProblem,
		CloudProvider: "aws",
		SessionID:     "session-clean",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	assert.Equal(t, "session-clean", result.SessionID)
	assert.Equal(t, fourDomainProblem, result.Problem)
	assert.Equal(t, "aws", result.CloudProvider)
	assert.Equal(t, state.PhaseComplete, result.Phase)
	assert.Equal(t, presenterSummary, result.Summary)
	assert.Equal(t, 0, result.IterationsUsed)
	assert.False(t, result.Forced)
	assert.False(t, result.FactualErrorsExist)
	assert.False(t, result.DesignFlawsExist)
	assert.Len(t, result.ValidationFeedback, 4)
	assert.Len(t, result.AuditFeedback, 5)

	require.Len(t, result.FinalArchitecture, 4)
	for _, d := range state.AllDomains() {
		component, ok := result.FinalArchitecture[d]
		require.True(t, ok, "missing component for %s", d)
		assert.Equal(t, state.ArchitectAgent(d), component.Agent)
		assert.NotEmpty(t, component.Recommendations)
	}

	// 1 supervisor + 4 architects + 1 supervisor + 4 validators
	// + 1 supervisor + 5 auditors + 1 presenter.
	assert.Len(t, result.Messages, 17)
}

func TestDesignWorkflow_RegeneratesOnValidationErrors(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	// First pass: the compute validator reports an error. Second pass: clean.
	validatorVerdict := func(input *AgentInput) string {
		if input.State.IterationCount == 0 && input.Domain == state.DomainCompute {
			return "Found an error in the proposed instance types."
		}
		return cleanValidatorVerdict(input)
	}
	registerPipelineMocks(env, validatorVerdict, cleanAuditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       fourDomainProblem,
		CloudProvider: "aws",
		SessionID:     "session-regen",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	assert.Equal(t, 1, result.IterationsUsed)
	assert.False(t, result.Forced)
	assert.True(t, result.FactualErrorsExist, "the error flag stays raised once set")
	assert.False(t, result.DesignFlawsExist)
	assert.Equal(t, presenterSummary, result.Summary)
	require.Len(t, result.FinalArchitecture, 4)

	// Failed cycle: 1+4+1+4. Clean cycle: 1+4+1+4+1+5. Presenter: 1.
	assert.Len(t, result.Messages, 27)
}

func TestDesignWorkflow_RegeneratesOnAuditFlaws(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	// First audit pass: the security auditor flags a flaw. Second: clean.
	auditorVerdict := func(input *AuditorInput) string {
		if input.State.IterationCount == 0 && input.Pillar == state.PillarSecurity {
			return "There is a flaw in the public subnet exposure."
		}
		return cleanAuditorVerdict(input)
	}
	registerPipelineMocks(env, cleanValidatorVerdict, auditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       fourDomainProblem,
		CloudProvider: "azure",
		SessionID:     "session-audit-regen",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	assert.Equal(t, 1, result.IterationsUsed)
	assert.False(t, result.Forced)
	assert.False(t, result.FactualErrorsExist)
	assert.True(t, result.DesignFlawsExist, "the flaw flag stays raised once set")

	// Two full cycles of 1+4+1+4+1+5, then the presenter.
	assert.Len(t, result.Messages, 33)
}

func TestDesignWorkflow_ForcesCompletionAtCeiling(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	// Validators never accept the architecture.
	alwaysErrors := func(*AgentInput) string {
		return "Still finding an error in the proposed configuration."
	}
	registerPipelineMocks(env, alwaysErrors, cleanAuditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       fourDomainProblem,
		CloudProvider: "aws",
		SessionID:     "session-forced",
		MaxIterations: 2,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	assert.True(t, result.Forced)
	assert.Equal(t, 2, result.IterationsUsed)
	assert.True(t, result.FactualErrorsExist)
	assert.False(t, result.DesignFlawsExist)

	// The presenter still runs and the current architecture stands.
	assert.Equal(t, presenterSummary, result.Summary)
	require.Len(t, result.FinalArchitecture, 4)

	var forcedNote *state.Message
	for i := range result.Messages {
		if result.Messages[i].Content == routing.ForcedCompletionNote {
			forcedNote = &result.Messages[i]
		}
	}
	require.NotNil(t, forcedNote, "forced completion note missing from the run log")
	assert.Equal(t, state.RoleSystem, forcedNote.Role)

	// Two failed cycles of 1+4+1+4, the forced note, the presenter.
	assert.Len(t, result.Messages, 22)
}

func TestDesignWorkflow_DefaultCeilingIsFive(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	alwaysErrors := func(*AgentInput) string {
		return "Still finding an error in the proposed configuration."
	}
	registerPipelineMocks(env, alwaysErrors, cleanAuditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       fourDomainProblem,
		CloudProvider: "aws",
		SessionID:     "session-default-ceiling",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	assert.True(t, result.Forced)
	assert.Equal(t, state.DefaultMaxIterations, result.IterationsUsed)

	// Five failed cycles of 1+4+1+4, the forced note, the presenter.
	assert.Len(t, result.Messages, 52)
}

func TestDesignWorkflow_FiltersIrrelevantDomains(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	registerPipelineMocks(env, cleanValidatorVerdict, cleanAuditorVerdict)

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       storageOnlyProblem,
		CloudProvider: "aws",
		SessionID:     "session-storage-only",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result DesignResult
	require.NoError(t, env.GetWorkflowResult(&result))

	require.Len(t, result.FinalArchitecture, 1)
	component, ok := result.FinalArchitecture[state.DomainStorage]
	require.True(t, ok)
	assert.Equal(t, "storage_architect", component.Agent)

	// One architect and one validator, but always all five auditors:
	// 1+1 + 1+1 + 1+5 + 1.
	assert.Len(t, result.Messages, 11)
}

func TestDesignWorkflow_RejectsInvalidRequest(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	env.ExecuteWorkflow(DesignWorkflow, DesignRequest{
		Problem:       "",
		CloudProvider: "aws",
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem statement is required")
}
