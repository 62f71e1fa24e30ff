// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package state defines the shared workflow record threaded through every
// step of a design run. The record is passed by value between the workflow
// and its activities; activities report their writes back as deltas and the
// workflow applies them through the mutators here, so ownership stays
// explicit: architects write components, validators and auditors append
// feedback, supervisors reset agent bookkeeping and move phases.
package state

import (
	"strings"
	"time"
)

// Phase identifies where a run sits in the generate/validate/audit cycle.
type Phase string

const (
	PhaseGenerate Phase = "generate"
	PhaseValidate Phase = "validate"
	PhaseAudit    Phase = "audit"
	PhaseComplete Phase = "complete"
)

// Domain is an architecture domain with its own architect/validator pair.
type Domain string

const (
	DomainCompute  Domain = "compute"
	DomainNetwork  Domain = "network"
	DomainStorage  Domain = "storage"
	DomainDatabase Domain = "database"
)

// Pillar is a well-architected pillar audited independently.
type Pillar string

const (
	PillarSecurity              Pillar = "security"
	PillarCost                  Pillar = "cost"
	PillarReliability           Pillar = "reliability"
	PillarPerformance           Pillar = "performance"
	PillarOperationalExcellence Pillar = "operational_excellence"
)

// DefaultMaxIterations bounds the generate-validate-audit loop when no
// explicit ceiling is configured.
const DefaultMaxIterations = 5

// AllDomains returns the four architecture domains in canonical order.
func AllDomains() []Domain {
	return []Domain{DomainCompute, DomainNetwork, DomainStorage, DomainDatabase}
}

// AllPillars returns the five audit pillars in canonical order.
func AllPillars() []Pillar {
	return []Pillar{PillarSecurity, PillarCost, PillarReliability, PillarPerformance, PillarOperationalExcellence}
}

// ArchitectAgent returns the agent id of a domain's architect.
func ArchitectAgent(d Domain) string { return string(d) + "_architect" }

// ValidatorAgent returns the agent id of a domain's validator.
func ValidatorAgent(d Domain) string { return string(d) + "_validator" }

// AuditorAgent returns the agent id of a pillar's auditor.
func AuditorAgent(p Pillar) string { return string(p) + "_auditor" }

// ArchitectDomain resolves an architect agent id back to its domain.
func ArchitectDomain(agent string) (Domain, bool) {
	if !strings.HasSuffix(agent, "_architect") {
		return "", false
	}
	d := Domain(strings.TrimSuffix(agent, "_architect"))
	for _, known := range AllDomains() {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// ValidatorDomain resolves a validator agent id back to its domain.
func ValidatorDomain(agent string) (Domain, bool) {
	if !strings.HasSuffix(agent, "_validator") {
		return "", false
	}
	d := Domain(strings.TrimSuffix(agent, "_validator"))
	for _, known := range AllDomains() {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// AuditorPillar resolves an auditor agent id back to its pillar.
func AuditorPillar(agent string) (Pillar, bool) {
	if !strings.HasSuffix(agent, "_auditor") {
		return "", false
	}
	p := Pillar(strings.TrimSuffix(agent, "_auditor"))
	for _, known := range AllPillars() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Coordinator agent ids.
const (
	AgentArchitectSupervisor = "architect_supervisor"
	AgentValidatorSupervisor = "validator_supervisor"
	AgentAuditSupervisor     = "audit_supervisor"
	AgentFinalPresenter      = "final_presenter"
)

// Message roles used in the ordered run log.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the ordered run log.
type Message struct {
	Role    string
	Content string
}

// Component is one domain's produced architecture slice.
type Component struct {
	Recommendations string
	Agent           string
}

// DecomposedTask carries the supervisor's per-domain task assignment.
type DecomposedTask struct {
	TaskDescription    string
	Domain             Domain
	Agent              string
	Requirements       string
	Deliverables       string
	SupervisorAnalysis string
	CloudProvider      string
}

// ValidationFeedback is one validator's verdict on a domain component.
type ValidationFeedback struct {
	Domain    Domain
	Agent     string
	Feedback  string
	HasErrors bool
}

// AuditFeedback is one auditor's verdict on the whole architecture.
type AuditFeedback struct {
	Pillar   Pillar
	Agent    string
	Feedback string
	HasFlaws bool
}

// WorkflowState is the single shared record for one design run.
type WorkflowState struct {
	Messages       []Message
	UserProblem    string
	CurrentPhase   Phase
	IterationCount int

	DecomposedTasks map[Domain]DecomposedTask
	TaskAssignments map[Domain]string

	Components map[Domain]Component

	ValidationFeedback []ValidationFeedback
	AuditFeedback      []AuditFeedback

	ActiveAgents    []string
	CompletedAgents []string

	FactualErrorsExist bool
	DesignFlawsExist   bool

	FinalArchitecture   map[Domain]Component
	ArchitectureSummary string

	CloudProvider string
	Timestamp     time.Time
	SessionID     string
}

// New creates the state for a fresh run: phase generate, iteration zero,
// all collections empty.
func New(problem, provider, sessionID string, now time.Time) WorkflowState {
	return WorkflowState{
		UserProblem:     problem,
		CurrentPhase:    PhaseGenerate,
		DecomposedTasks: make(map[Domain]DecomposedTask),
		TaskAssignments: make(map[Domain]string),
		Components:      make(map[Domain]Component),
		CloudProvider:   provider,
		Timestamp:       now,
		SessionID:       sessionID,
	}
}

// AppendMessage appends one entry to the run log.
func (s *WorkflowState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// AgentCompleted reports whether agent is marked complete for the current phase.
func (s *WorkflowState) AgentCompleted(agent string) bool {
	for _, a := range s.CompletedAgents {
		if a == agent {
			return true
		}
	}
	return false
}

// MarkAgentComplete records agent completion. Idempotent: a second call for
// the same agent does not add a duplicate entry.
func (s *WorkflowState) MarkAgentComplete(agent string) {
	if s.AgentCompleted(agent) {
		return
	}
	s.CompletedAgents = append(s.CompletedAgents, agent)
}

// BeginPhase moves the run into phase and installs its active agent set.
// Completion markers are phase-scoped, so they are cleared here. Only
// supervisors call this.
func (s *WorkflowState) BeginPhase(phase Phase, active []string) {
	s.CurrentPhase = phase
	s.ActiveAgents = active
	s.CompletedAgents = nil
}

// SetComponent installs a domain's produced component.
func (s *WorkflowState) SetComponent(d Domain, c Component) {
	if s.Components == nil {
		s.Components = make(map[Domain]Component)
	}
	s.Components[d] = c
}

// AssignTask records the supervisor's decomposed task for a domain.
func (s *WorkflowState) AssignTask(d Domain, t DecomposedTask) {
	if s.DecomposedTasks == nil {
		s.DecomposedTasks = make(map[Domain]DecomposedTask)
	}
	if s.TaskAssignments == nil {
		s.TaskAssignments = make(map[Domain]string)
	}
	s.DecomposedTasks[d] = t
	s.TaskAssignments[d] = t.TaskDescription
}

// TaskFor returns the decomposed task text for a domain, falling back to the
// raw user problem when the supervisor has not assigned one.
func (s *WorkflowState) TaskFor(d Domain) string {
	if task, ok := s.TaskAssignments[d]; ok && task != "" {
		return task
	}
	return s.UserProblem
}

// AddValidationFeedback appends one validator verdict.
func (s *WorkflowState) AddValidationFeedback(fb ValidationFeedback) {
	s.ValidationFeedback = append(s.ValidationFeedback, fb)
}

// AddAuditFeedback appends one auditor verdict.
func (s *WorkflowState) AddAuditFeedback(fb AuditFeedback) {
	s.AuditFeedback = append(s.AuditFeedback, fb)
}

// WithinIterationLimit reports whether another generate pass is permitted
// under the configured ceiling.
func (s *WorkflowState) WithinIterationLimit(maxIterations int) bool {
	return s.IterationCount < maxIterations
}

// PrepareRetry re-enters the generate phase after a failed quality gate.
// The iteration counter increments exactly once per return edge, the
// feedback list for the retried phase is cleared for the next pass, and
// agent bookkeeping is reset.
func (s *WorkflowState) PrepareRetry(retried Phase) {
	s.CurrentPhase = PhaseGenerate
	s.IterationCount++
	switch retried {
	case PhaseValidate:
		s.ValidationFeedback = nil
	case PhaseAudit:
		s.AuditFeedback = nil
	}
	s.CompletedAgents = nil
	s.ActiveAgents = nil
}

// Finalize records the presenter's output: the component map is copied into
// the final architecture, the summary is stored, and the run completes.
func (s *WorkflowState) Finalize(summary string) {
	final := make(map[Domain]Component, len(s.Components))
	for d, c := range s.Components {
		final[d] = c
	}
	s.FinalArchitecture = final
	s.ArchitectureSummary = summary
	s.CurrentPhase = PhaseComplete
}
