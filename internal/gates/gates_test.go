package gates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cloudy-intel/internal/state"
)

func newState() state.WorkflowState {
	return state.New("problem", "aws", "session-1", time.Now())
}

func TestValidationGate(t *testing.T) {
	tests := []struct {
		name     string
		feedback []state.ValidationFeedback
		want     bool
	}{
		{
			name:     "no feedback passes",
			feedback: nil,
			want:     true,
		},
		{
			name: "clean feedback passes",
			feedback: []state.ValidationFeedback{
				{Domain: state.DomainCompute, Agent: "compute_validator", Feedback: "all good", HasErrors: false},
			},
			want: true,
		},
		{
			name: "one error fails the gate",
			feedback: []state.ValidationFeedback{
				{Domain: state.DomainCompute, Agent: "compute_validator", Feedback: "all good", HasErrors: false},
				{Domain: state.DomainNetwork, Agent: "network_validator", Feedback: "wrong subnet mask", HasErrors: true},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState()
			s.ValidationFeedback = tt.feedback

			v := ValidationGate{}.Evaluate(s)

			assert.Equal(t, tt.want, v.Passed)
			assert.Equal(t, GateValidation, v.Gate)
			if !tt.want {
				assert.Contains(t, v.Reason, "network_validator")
			}
		})
	}
}

func TestAuditGate(t *testing.T) {
	s := newState()
	s.AuditFeedback = []state.AuditFeedback{
		{Pillar: state.PillarSecurity, Agent: "security_auditor", Feedback: "fine", HasFlaws: false},
	}
	assert.True(t, AuditGate{}.Evaluate(s).Passed)

	s.AuditFeedback = append(s.AuditFeedback, state.AuditFeedback{
		Pillar: state.PillarCost, Agent: "cost_auditor", Feedback: "oversized instances", HasFlaws: true,
	})
	v := AuditGate{}.Evaluate(s)
	assert.False(t, v.Passed)
	assert.Contains(t, v.Reason, "cost_auditor")
}

func TestIterationGate(t *testing.T) {
	gate := IterationGate{MaxIterations: 5}

	s := newState()
	assert.True(t, gate.Evaluate(s).Passed)

	s.IterationCount = 4
	assert.True(t, gate.Evaluate(s).Passed)

	s.IterationCount = 5
	v := gate.Evaluate(s)
	assert.False(t, v.Passed)
	assert.Contains(t, v.Reason, "ceiling")
}
