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

// domainBriefs carry the per-domain framing of an architect prompt: the
// design charge, the service checklist, and the closing instructions.
var domainBriefs = map[state.Domain]struct {
	charge         string
	considerations []string
	search         string
	closing        string
}{
	state.DomainCompute: {
		charge: "Design compute resources for",
		considerations: []string{
			"EC2 instances (types, sizing, placement)",
			"Lambda functions (serverless compute)",
			"ECS/EKS (container orchestration)",
			"Auto Scaling Groups",
			"Load Balancers",
		},
		search:  "Use web search for latest pricing and instance types.",
		closing: "Provide detailed configuration recommendations.",
	},
	state.DomainNetwork: {
		charge: "Design network infrastructure for",
		considerations: []string{
			"VPC design and subnets",
			"Security Groups and NACLs",
			"Load Balancers (ALB, NLB, CLB)",
			"CloudFront/CDN",
			"Route 53 DNS",
			"VPN/Direct Connect",
		},
		search:  "Use web search for latest networking best practices.",
		closing: "Provide detailed network architecture.",
	},
	state.DomainStorage: {
		charge: "Design storage solutions for",
		considerations: []string{
			"S3 buckets (object storage)",
			"EBS volumes (block storage)",
			"EFS (file storage)",
			"Storage classes and lifecycle policies",
			"Backup and disaster recovery",
		},
		search:  "Use web search for latest storage options and pricing.",
		closing: "Provide detailed storage architecture.",
	},
	state.DomainDatabase: {
		charge: "Design database solutions for",
		considerations: []string{
			"RDS (managed relational databases)",
			"DynamoDB (NoSQL)",
			"ElastiCache (caching)",
			"Redshift (data warehouse)",
			"Database security and encryption",
		},
		search:  "Use web search for latest database services and pricing.",
		closing: "Provide detailed database architecture.",
	},
}

// DomainArchitectBuilder builds one domain architect's design prompt. The
// task text comes from the supervisor's decomposition when present and falls
// back to the raw user problem.
type DomainArchitectBuilder struct{}

// NewDomainArchitectBuilder creates a new domain architect prompt builder
func NewDomainArchitectBuilder() *DomainArchitectBuilder {
	return &DomainArchitectBuilder{}
}

// Build creates a domain architect prompt from the request
func (b *DomainArchitectBuilder) Build(request Request) (string, error) {
	brief, ok := domainBriefs[request.Domain]
	if !ok {
		return "", fmt.Errorf("unknown architecture domain: %q", request.Domain)
	}

	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are a %s %s Domain Architect.\n", label, titleCase(string(request.Domain))))
	sb.WriteString(fmt.Sprintf("%s: %s\n\n", brief.charge, s.TaskFor(request.Domain)))

	sb.WriteString("Consider:\n")
	for _, item := range brief.considerations {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")

	b.writePriorFeedback(&sb, request)

	sb.WriteString(brief.search + "\n")
	sb.WriteString(brief.closing + "\n")

	return sb.String(), nil
}

// writePriorFeedback folds earlier quality-gate findings into a regeneration
// pass: the domain's own validation verdicts plus every audit verdict, since
// pillar findings cut across domains.
func (b *DomainArchitectBuilder) writePriorFeedback(sb *strings.Builder, request Request) {
	var domainFeedback []state.ValidationFeedback
	for _, fb := range request.State.ValidationFeedback {
		if fb.Domain == request.Domain {
			domainFeedback = append(domainFeedback, fb)
		}
	}

	if len(domainFeedback) == 0 && len(request.State.AuditFeedback) == 0 {
		return
	}

	sb.WriteString("Address the feedback from the previous iteration:\n\n")
	if len(domainFeedback) > 0 {
		sb.WriteString("Validation Feedback:\n")
		writeValidationFeedback(sb, domainFeedback)
	}
	if len(request.State.AuditFeedback) > 0 {
		sb.WriteString("Audit Feedback:\n")
		writeAuditFeedback(sb, request.State.AuditFeedback)
	}
}

// Role returns the pipeline role this builder serves
func (b *DomainArchitectBuilder) Role() Role {
	return RoleDomainArchitect
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
