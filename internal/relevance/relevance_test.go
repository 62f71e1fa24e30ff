// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cloudy-intel/internal/state"
)

func TestDetermineRelevantAgents(t *testing.T) {
	tests := []struct {
		name    string
		problem string
		want    []string
	}{
		{
			name:    "storage only",
			problem: "I need to store 5 TB of data",
			want:    []string{"storage_architect"},
		},
		{
			name:    "empty problem falls open to all domains",
			problem: "",
			want:    []string{"compute_architect", "network_architect", "storage_architect", "database_architect"},
		},
		{
			name:    "no keyword family falls open to all domains",
			problem: "help me plan my trip to portugal",
			want:    []string{"compute_architect", "network_architect", "storage_architect", "database_architect"},
		},
		{
			name:    "matching is case insensitive",
			problem: "ARCHIVE my FILES somewhere cheap",
			want:    []string{"storage_architect"},
		},
		{
			name:    "compute and network in match order",
			problem: "deploy containers behind a load balancer",
			want:    []string{"compute_architect", "network_architect"},
		},
		{
			name:    "database implies storage via the data substring",
			problem: "I need a database",
			want:    []string{"storage_architect", "database_architect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineRelevantAgents(tt.problem))
		})
	}
}

func TestRelevantDomainsNeverEmpty(t *testing.T) {
	for _, problem := range []string{"", "   ", "hello world", "?!"} {
		assert.NotEmpty(t, RelevantDomains(problem), "problem %q", problem)
	}
}

func TestValidatorsFollowTheRelevantDomains(t *testing.T) {
	domains := RelevantDomains("I need to store backups")

	assert.Equal(t, []state.Domain{state.DomainStorage}, domains)
	assert.Equal(t, []string{"storage_validator"}, Validators(domains))
	assert.Equal(t, []string{"storage_architect"}, Architects(domains))
}

func TestAuditorsAlwaysCoverAllPillars(t *testing.T) {
	want := []string{
		"security_auditor",
		"cost_auditor",
		"reliability_auditor",
		"performance_auditor",
		"operational_excellence_auditor",
	}
	assert.Equal(t, want, Auditors())
}
