package prompts

import (
	"cloudy-intel/internal/state"
)

// Role indicates which pipeline role a prompt is built for
type Role string

const (
	// RoleArchitectSupervisor decomposes the problem and coordinates architects
	RoleArchitectSupervisor Role = "architect_supervisor"
	// RoleDomainArchitect designs one architecture domain
	RoleDomainArchitect Role = "domain_architect"
	// RoleValidatorSupervisor coordinates the validator team
	RoleValidatorSupervisor Role = "validator_supervisor"
	// RoleDomainValidator checks one domain component for factual correctness
	RoleDomainValidator Role = "domain_validator"
	// RoleAuditSupervisor coordinates the pillar auditors
	RoleAuditSupervisor Role = "audit_supervisor"
	// RolePillarAuditor audits the whole architecture against one pillar
	RolePillarAuditor Role = "pillar_auditor"
	// RoleFinalPresenter synthesizes the approved architecture into a report
	RoleFinalPresenter Role = "final_presenter"
)

// Request contains all information needed to build a role prompt
type Request struct {
	// State is the workflow state the prompt draws on
	State state.WorkflowState
	// Domain scopes domain architect and validator prompts
	Domain state.Domain
	// Pillar scopes pillar auditor prompts
	Pillar state.Pillar
	// Context is retrieved documentation or search output, folded in ahead
	// of the role instructions when present
	Context string
}

// Builder is the interface for building role prompts
type Builder interface {
	// Build creates a prompt from the request
	Build(request Request) (string, error)
	// Role returns the pipeline role this builder serves
	Role() Role
}
