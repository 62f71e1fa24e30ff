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

// validatorChecks are the per-domain correctness checklists.
var validatorChecks = map[state.Domain][]string{
	state.DomainCompute: {
		"Instance type compatibility",
		"Region availability",
		"Pricing accuracy",
		"Service limits",
		"Best practices",
	},
	state.DomainNetwork: {
		"Subnet configurations",
		"Security group rules",
		"Routing table setup",
		"Load balancer configurations",
		"DNS settings",
	},
	state.DomainStorage: {
		"Storage class configurations",
		"Lifecycle policies",
		"Encryption settings",
		"Access permissions",
		"Backup configurations",
	},
	state.DomainDatabase: {
		"Database engine compatibility",
		"Instance sizing",
		"Backup configurations",
		"Security settings",
		"Performance optimization",
	},
}

// DomainValidatorBuilder builds one domain validator's review prompt over
// the component that domain's architect produced.
type DomainValidatorBuilder struct{}

// NewDomainValidatorBuilder creates a new domain validator prompt builder
func NewDomainValidatorBuilder() *DomainValidatorBuilder {
	return &DomainValidatorBuilder{}
}

// Build creates a domain validator prompt from the request
func (b *DomainValidatorBuilder) Build(request Request) (string, error) {
	checks, ok := validatorChecks[request.Domain]
	if !ok {
		return "", fmt.Errorf("unknown architecture domain: %q", request.Domain)
	}

	s := request.State
	label := providerLabel(s.CloudProvider)

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString(fmt.Sprintf("You are a %s %s Validator.\n", label, titleCase(string(request.Domain))))
	sb.WriteString(fmt.Sprintf("Validate the %s architecture for technical correctness.\n\n", request.Domain))

	sb.WriteString("Architecture to validate:\n\n")
	if component, ok := s.Components[request.Domain]; ok {
		sb.WriteString(component.Recommendations)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("No %s component has been produced yet.\n\n", request.Domain))
	}

	sb.WriteString("Check for:\n")
	for _, item := range checks {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Report any factual errors or optimization opportunities.\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *DomainValidatorBuilder) Role() Role {
	return RoleDomainValidator
}
