// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"strings"

	"cloudy-intel/internal/state"
)

// ValidatorReportsErrors decides the HasErrors flag from a validator's
// response text. Any mention of "error", in any casing, counts. The check is
// a keyword heuristic: a validator writing "no errors found" still trips it,
// which biases the pipeline toward an extra regeneration pass rather than a
// missed defect.
func ValidatorReportsErrors(response string) bool {
	return strings.Contains(strings.ToLower(response), "error")
}

// flawSignals holds the per-pillar keyword pairs that trip the HasFlaws
// flag. Either keyword suffices.
var flawSignals = map[state.Pillar][2]string{
	state.PillarSecurity:              {"flaw", "issue"},
	state.PillarCost:                  {"optimization", "cost"},
	state.PillarReliability:           {"issue", "improvement"},
	state.PillarPerformance:           {"optimization", "improvement"},
	state.PillarOperationalExcellence: {"improvement", "enhancement"},
}

// AuditorReportsFlaws decides the HasFlaws flag from an auditor's response
// text using that pillar's signal vocabulary. Pillars outside the five
// audited ones carry no vocabulary and never flag.
func AuditorReportsFlaws(p state.Pillar, response string) bool {
	signals, ok := flawSignals[p]
	if !ok {
		return false
	}
	lower := strings.ToLower(response)
	return strings.Contains(lower, signals[0]) || strings.Contains(lower, signals[1])
}
