package prompts

import (
	"fmt"
	"sort"
	"strings"

	"cloudy-intel/internal/state"
)

// GetBuilder returns the appropriate prompt builder for the given role
func GetBuilder(role Role) (Builder, error) {
	switch role {
	case RoleArchitectSupervisor:
		return NewArchitectSupervisorBuilder(), nil
	case RoleDomainArchitect:
		return NewDomainArchitectBuilder(), nil
	case RoleValidatorSupervisor:
		return NewValidatorSupervisorBuilder(), nil
	case RoleDomainValidator:
		return NewDomainValidatorBuilder(), nil
	case RoleAuditSupervisor:
		return NewAuditSupervisorBuilder(), nil
	case RolePillarAuditor:
		return NewPillarAuditorBuilder(), nil
	case RoleFinalPresenter:
		return NewFinalPresenterBuilder(), nil
	default:
		return nil, fmt.Errorf("unknown prompt role: %s", role)
	}
}

// BuildPrompt is a convenience function that creates a prompt for the given role
func BuildPrompt(role Role, request Request) (string, error) {
	builder, err := GetBuilder(role)
	if err != nil {
		return "", err
	}
	return builder.Build(request)
}

// providerLabel renders the cloud provider tag the way the prompts address it
func providerLabel(provider string) string {
	return strings.ToUpper(provider)
}

// writeContext folds advisory tool output in ahead of the role instructions.
// Missing context writes nothing: the prompt degrades, never fails.
func writeContext(sb *strings.Builder, context string) {
	if context == "" {
		return
	}
	sb.WriteString("Context: ")
	sb.WriteString(context)
	sb.WriteString("\n\n")
}

// writeComponents renders the collected architecture components in canonical
// domain order so the same state always yields the same prompt text.
func writeComponents(sb *strings.Builder, components map[state.Domain]state.Component) {
	if len(components) == 0 {
		sb.WriteString("No components have been produced yet.\n\n")
		return
	}
	domains := make([]string, 0, len(components))
	for d := range components {
		domains = append(domains, string(d))
	}
	sort.Strings(domains)
	for _, d := range domains {
		c := components[state.Domain(d)]
		sb.WriteString(fmt.Sprintf("### %s (by %s)\n\n", d, c.Agent))
		sb.WriteString(c.Recommendations)
		sb.WriteString("\n\n")
	}
}

func writeValidationFeedback(sb *strings.Builder, feedback []state.ValidationFeedback) {
	for _, fb := range feedback {
		marker := "no errors"
		if fb.HasErrors {
			marker = "errors reported"
		}
		sb.WriteString(fmt.Sprintf("- [%s, %s] %s\n", fb.Agent, marker, fb.Feedback))
	}
	sb.WriteString("\n")
}

func writeAuditFeedback(sb *strings.Builder, feedback []state.AuditFeedback) {
	for _, fb := range feedback {
		marker := "no flaws"
		if fb.HasFlaws {
			marker = "flaws reported"
		}
		sb.WriteString(fmt.Sprintf("- [%s, %s] %s\n", fb.Agent, marker, fb.Feedback))
	}
	sb.WriteString("\n")
}

// domainDescriptions label each architect the way the supervisor addresses it.
var domainDescriptions = map[state.Domain]string{
	state.DomainCompute:  "Compute Architect (EC2, Lambda, ECS, EKS, Auto Scaling, etc.)",
	state.DomainNetwork:  "Network Architect (VPC, Subnets, Security Groups, Load Balancers, DNS, etc.)",
	state.DomainStorage:  "Storage Architect (S3, EBS, EFS, FSx, Storage Gateway, etc.)",
	state.DomainDatabase: "Database Architect (RDS, DynamoDB, ElastiCache, Redshift, etc.)",
}

// BuildDecomposedTask turns the supervisor's analysis into one domain's task
// assignment. The task text carries the full analysis so the architect works
// from the supervisor's problem breakdown rather than the raw problem alone.
func BuildDecomposedTask(analysis string, d state.Domain, problem, provider string) state.DecomposedTask {
	label := providerLabel(provider)

	var sb strings.Builder
	sb.WriteString("ARCHITECT SUPERVISOR ANALYSIS:\n")
	sb.WriteString(analysis)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("YOUR SPECIFIC TASK as %s:\n", domainDescriptions[d]))
	sb.WriteString(fmt.Sprintf("Based on the user problem: %q\n\n", problem))
	sb.WriteString(fmt.Sprintf("Analyze the %s requirements for this specific problem and design appropriate %s solutions using %s services.\n\n", d, d, label))
	sb.WriteString("Focus on:\n")
	sb.WriteString("- Requirements specific to this use case\n")
	sb.WriteString(fmt.Sprintf("- %s services most relevant to the problem\n", label))
	sb.WriteString("- Detailed configuration recommendations\n")
	sb.WriteString("- Cost, security, and performance implications\n")
	sb.WriteString("- Integration with other architectural components\n\n")
	sb.WriteString("Provide actionable recommendations that directly address the user's problem.\n")

	return state.DecomposedTask{
		TaskDescription:    sb.String(),
		Domain:             d,
		Agent:              state.ArchitectAgent(d),
		Requirements:       fmt.Sprintf("Design %s solutions for: %s", d, problem),
		Deliverables:       fmt.Sprintf("Detailed %s architecture recommendations", d),
		SupervisorAnalysis: analysis,
		CloudProvider:      label,
	}
}
