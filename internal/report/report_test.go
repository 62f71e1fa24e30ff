// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudy-intel/internal/state"
	"cloudy-intel/internal/temporal"
)

func sampleResult() *temporal.DesignResult {
	return &temporal.DesignResult{
		SessionID:     "session-report",
		Problem:       "Archive regulatory records for seven years",
		CloudProvider: "aws",
		Phase:         state.PhaseComplete,
		Summary:       "Executive Summary: use S3 with Glacier Deep Archive.",
		FinalArchitecture: map[state.Domain]state.Component{
			state.DomainStorage: {
				Recommendations: "S3 with lifecycle transitions to Glacier",
				Agent:           "storage_architect",
			},
			state.DomainDatabase: {
				Recommendations: "DynamoDB for retrieval metadata",
				Agent:           "database_architect",
			},
		},
		IterationsUsed: 1,
		ValidationFeedback: []state.ValidationFeedback{
			{Domain: state.DomainStorage, Agent: "storage_validator", Feedback: "Verified.", HasErrors: false},
			{Domain: state.DomainDatabase, Agent: "database_validator", Feedback: "An error in capacity units.", HasErrors: true},
		},
		AuditFeedback: []state.AuditFeedback{
			{Pillar: state.PillarSecurity, Agent: "security_auditor", Feedback: "Encryption flaw in transit.", HasFlaws: true},
			{Pillar: state.PillarCost, Agent: "cost_auditor", Feedback: "Within budget.", HasFlaws: false},
		},
	}
}

func TestRenderIncludesRunHeaderAndMetadata(t *testing.T) {
	out := Render(sampleResult())

	assert.Contains(t, out, "🏗️  CLOUDYINTEL ARCHITECTURE SUMMARY")
	assert.Contains(t, out, strings.Repeat("=", 50))
	assert.Contains(t, out, "📋 User Problem: Archive regulatory records for seven years")
	assert.Contains(t, out, "☁️  Cloud Provider: AWS")
	assert.Contains(t, out, "🔄 Iterations: 1")
	assert.Contains(t, out, "📊 Final Phase: complete")
}

func TestRenderListsComponentsInCanonicalOrder(t *testing.T) {
	out := Render(sampleResult())

	storageLine := "🔧 STORAGE: storage_architect"
	databaseLine := "🔧 DATABASE: database_architect"
	require.Contains(t, out, storageLine)
	require.Contains(t, out, databaseLine)
	assert.NotContains(t, out, "🔧 COMPUTE:")
	assert.NotContains(t, out, "🔧 NETWORK:")

	// Storage precedes database in the canonical domain order.
	assert.Less(t, strings.Index(out, storageLine), strings.Index(out, databaseLine))
}

func TestRenderMarksFeedbackVerdicts(t *testing.T) {
	out := Render(sampleResult())

	assert.Contains(t, out, "• storage: storage_validator ✅ No Errors")
	assert.Contains(t, out, "• database: database_validator ⚠️  Has Errors")
	assert.Contains(t, out, "• security: security_auditor ⚠️  Has Flaws")
	assert.Contains(t, out, "• cost: cost_auditor ✅ No Flaws")
}

func TestRenderIncludesFinalSummaryWhenPresent(t *testing.T) {
	res := sampleResult()
	out := Render(res)
	assert.Contains(t, out, "📄 FINAL ARCHITECTURE SUMMARY:\nExecutive Summary: use S3 with Glacier Deep Archive.")

	res.Summary = ""
	out = Render(res)
	assert.NotContains(t, out, "📄 FINAL ARCHITECTURE SUMMARY:")
}

func TestRenderNilResultIsEmpty(t *testing.T) {
	assert.Empty(t, Render(nil))
}
