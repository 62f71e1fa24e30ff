// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package prompts

import (
	"fmt"
	"strings"
)

// FinalPresenterBuilder builds the closing prompt that synthesizes the
// approved architecture into a report.
type FinalPresenterBuilder struct{}

// NewFinalPresenterBuilder creates a new final presenter prompt builder
func NewFinalPresenterBuilder() *FinalPresenterBuilder {
	return &FinalPresenterBuilder{}
}

// Build creates the final presenter prompt from the request
func (b *FinalPresenterBuilder) Build(request Request) (string, error) {
	s := request.State

	var sb strings.Builder
	writeContext(&sb, request.Context)

	sb.WriteString("You are the Final Presenter for CloudyIntel.\n")
	sb.WriteString("Present the final approved architecture.\n\n")

	sb.WriteString(fmt.Sprintf("User Problem: %s\n", s.UserProblem))
	sb.WriteString(fmt.Sprintf("Cloud Provider: %s\n\n", providerLabel(s.CloudProvider)))

	sb.WriteString("Final Architecture:\n\n")
	writeComponents(&sb, s.Components)

	sb.WriteString("Create a comprehensive presentation including:\n")
	sb.WriteString("1. Executive Summary\n")
	sb.WriteString("2. Architecture Overview\n")
	sb.WriteString("3. Component Details\n")
	sb.WriteString("4. Cost Estimation\n")
	sb.WriteString("5. Security Considerations\n")
	sb.WriteString("6. Implementation Plan\n\n")

	sb.WriteString("Make it professional and actionable.\n")

	return sb.String(), nil
}

// Role returns the pipeline role this builder serves
func (b *FinalPresenterBuilder) Role() Role {
	return RoleFinalPresenter
}
