// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package prompts

import (
	"fmt"
	"strings"

	"cloudy-intel/internal/state"
)

// pillarBriefs carry the per-pillar framing of an audit prompt.
var pillarBriefs = map[state.Pillar]struct {
	title   string
	charge  string
	checks  []string
	closing string
}{
	state.PillarSecurity: {
		title:  "Security Auditor",
		charge: "Audit the architecture for security best practices.",
		checks: []string{
			"Network security (VPC, security groups, NACLs)",
			"Data encryption (at rest and in transit)",
			"Access controls (IAM, RBAC)",
			"Compliance requirements",
			"Security monitoring and logging",
		},
		closing: "Report any security flaws or recommendations.",
	},
	state.PillarCost: {
		title:  "Cost Auditor",
		charge: "Audit the architecture for cost optimization opportunities.",
		checks: []string{
			"Right-sizing recommendations",
			"Reserved instance opportunities",
			"Spot instance usage",
			"Storage optimization",
			"Unused resources",
		},
		closing: "Report any cost optimization opportunities.",
	},
	state.PillarReliability: {
		title:  "Reliability Auditor",
		charge: "Audit the architecture for reliability and availability.",
		checks: []string{
			"Multi-AZ deployments",
			"Auto Scaling configurations",
			"Load balancing",
			"Backup and disaster recovery",
			"Monitoring and alerting",
		},
		closing: "Report any reliability issues or recommendations.",
	},
	state.PillarPerformance: {
		title:  "Performance Auditor",
		charge: "Audit the architecture for performance optimization.",
		checks: []string{
			"CDN configurations",
			"Caching strategies",
			"Database optimization",
			"Network performance",
			"Resource allocation",
		},
		closing: "Report any performance optimization opportunities.",
	},
	state.PillarOperationalExcellence: {
		title:  "Operational Excellence Auditor",
		charge: "Audit the architecture for operational best practices.",
		checks: []string{
			"Monitoring and logging",
			"Automation opportunities",
			"Deployment strategies",
			"Change management",
			"Documentation and runbooks",
		},
		closing: "Report any operational improvement opportunities.",
	},
}

// PillarAuditorBuilder builds one pillar auditor's review prompt over the
// whole collected architecture.
type PillarAuditorBuilder struct{}

// NewPillarAuditorBuilder creates a new pillar auditor prompt builder
func NewPillarAuditorBuilder() *PillarAuditorBuilder {
	return &PillarAuditorBuilder{}
}

// Build creates a pillar auditor prompt from the request
func (b *PillarAuditorBuilder) Build(request Request) (string, error) {
	brief, ok := pillarBriefs[request.Pillar]
	if !ok {
		return "", fmt.Errorf("unknown audit pillar: %q", request.Pillar)
	}

	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are a %s %s.\n", label, brief.title))
	sb.WriteString(brief.charge + "\n\n")

	sb.WriteString("Architecture to audit:\n\n")
	writeComponents(&sb, s.Components)

	sb.WriteString("Check for:\n")
	for _, item := range brief.checks {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(brief.closing + "\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *PillarAuditorBuilder) Role() Role {
	return RolePillarAuditor
}
