// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package prompts

import (
	"fmt"
	"strings"
)

// ArchitectSupervisorBuilder builds the coordination prompt that opens every
// generate pass. The response doubles as the analysis each domain task
// assignment is derived from.
type ArchitectSupervisorBuilder struct{}

// NewArchitectSupervisorBuilder creates a new architect supervisor prompt builder
func NewArchitectSupervisorBuilder() *ArchitectSupervisorBuilder {
	return &ArchitectSupervisorBuilder{}
}

// Build creates the architect supervisor prompt from the request
func (b *ArchitectSupervisorBuilder) Build(request Request) (string, error) {
	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are the Architect Supervisor for %s cloud architecture.\n", label))
	sb.WriteString("Your role is to decompose the user problem and coordinate domain architects.\n\n")

	sb.WriteString(fmt.Sprintf("User Problem: %s\n", s.UserProblem))
	sb.WriteString(fmt.Sprintf("Current Iteration: %d\n\n", s.IterationCount))

	if len(s.ValidationFeedback) > 0 || len(s.AuditFeedback) > 0 {
		sb.WriteString("Available feedback:\n\n")
		if len(s.ValidationFeedback) > 0 {
			sb.WriteString("Validation Feedback:\n")
			writeValidationFeedback(&sb, s.ValidationFeedback)
		}
		if len(s.AuditFeedback) > 0 {
			sb.WriteString("Audit Feedback:\n")
			writeAuditFeedback(&sb, s.AuditFeedback)
		}
	}

	sb.WriteString("Decompose the problem into tasks for:\n")
	sb.WriteString("1. Compute Architect (EC2, Lambda, ECS, etc.)\n")
	sb.WriteString("2. Network Architect (VPC, ALB, CloudFront, etc.)\n")
	sb.WriteString("3. Storage Architect (S3, EBS, EFS, etc.)\n")
	sb.WriteString("4. Database Architect (RDS, DynamoDB, ElastiCache, etc.)\n\n")

	sb.WriteString("For each domain architect, provide:\n")
	sb.WriteString("1. A specific, actionable task description tailored to the user's problem\n")
	sb.WriteString("2. Key requirements and constraints specific to this problem\n")
	sb.WriteString("3. Expected deliverables that address the user's needs\n")
	sb.WriteString("4. Any dependencies or considerations between domains\n")
	sb.WriteString(fmt.Sprintf("5. Specific %s services to focus on\n\n", label))

	sb.WriteString("Provide clear instructions for each domain architect.\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *ArchitectSupervisorBuilder) Role() Role {
	return RoleArchitectSupervisor
}

// ValidatorSupervisorBuilder builds the coordination prompt that opens the
// validate phase.
type ValidatorSupervisorBuilder struct{}

// NewValidatorSupervisorBuilder creates a new validator supervisor prompt builder
func NewValidatorSupervisorBuilder() *ValidatorSupervisorBuilder {
	return &ValidatorSupervisorBuilder{}
}

// Build creates the validator supervisor prompt from the request
func (b *ValidatorSupervisorBuilder) Build(request Request) (string, error) {
	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are the Validator Supervisor for %s architecture validation.\n", label))
	sb.WriteString("Your role is to coordinate domain validators to check factual correctness.\n\n")

	sb.WriteString("Architecture to validate:\n\n")
	writeComponents(&sb, s.Components)

	sb.WriteString("Coordinate validation for:\n")
	sb.WriteString("1. Compute Validator (check EC2, Lambda, ECS configurations)\n")
	sb.WriteString("2. Network Validator (check VPC, security groups, routing)\n")
	sb.WriteString("3. Storage Validator (check S3, EBS, EFS configurations)\n")
	sb.WriteString("4. Database Validator (check RDS, DynamoDB, ElastiCache)\n\n")

	sb.WriteString("Focus on technical correctness and compatibility.\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *ValidatorSupervisorBuilder) Role() Role {
	return RoleValidatorSupervisor
}

// AuditSupervisorBuilder builds the coordination prompt that opens the audit
// phase.
type AuditSupervisorBuilder struct{}

// NewAuditSupervisorBuilder creates a new audit supervisor prompt builder
func NewAuditSupervisorBuilder() *AuditSupervisorBuilder {
	return &AuditSupervisorBuilder{}
}

// Build creates the audit supervisor prompt from the request
func (b *AuditSupervisorBuilder) Build(request Request) (string, error) {
	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are the Pillar Audit Supervisor for %s architecture auditing.\n", label))
	sb.WriteString("Your role is to coordinate pillar auditors to check design quality.\n\n")

	sb.WriteString("Architecture to audit:\n\n")
	writeComponents(&sb, s.Components)

	sb.WriteString("Coordinate auditing for:\n")
	sb.WriteString("1. Security Auditor (security best practices)\n")
	sb.WriteString("2. Cost Auditor (cost optimization)\n")
	sb.WriteString("3. Reliability Auditor (reliability and availability)\n")
	sb.WriteString("4. Performance Auditor (performance optimization)\n")
	sb.WriteString("5. Operational Excellence Auditor (operational best practices)\n\n")

	sb.WriteString("Focus on design quality and best practice violations.\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *AuditSupervisorBuilder) Role() Role {
	return RoleAuditSupervisor
}
