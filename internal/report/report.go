// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package report renders a finished design run for terminal display.
package report

import (
	"fmt"
	"strings"

	"cloudy-intel/internal/state"
	"cloudy-intel/internal/temporal"
)

// Render formats the run outcome as the architecture summary report.
// Components render in canonical domain order so the same result always
// yields the same text.
func Render(res *temporal.DesignResult) string {
	if res == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("\n🏗️  CLOUDYINTEL ARCHITECTURE SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "📋 User Problem: %s\n", res.Problem)
	fmt.Fprintf(&sb, "☁️  Cloud Provider: %s\n", strings.ToUpper(res.CloudProvider))
	fmt.Fprintf(&sb, "🔄 Iterations: %d\n", res.IterationsUsed)
	fmt.Fprintf(&sb, "📊 Final Phase: %s\n", res.Phase)

	sb.WriteString("\n🏗️  ARCHITECTURE COMPONENTS:\n")
	for _, domain := range state.AllDomains() {
		component, ok := res.FinalArchitecture[domain]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n🔧 %s: %s", strings.ToUpper(string(domain)), component.Agent)
	}

	sb.WriteString("\n\n📝 VALIDATION FEEDBACK:\n")
	for _, fb := range res.ValidationFeedback {
		fmt.Fprintf(&sb, "\n• %s: %s", fb.Domain, fb.Agent)
		if fb.HasErrors {
			sb.WriteString(" ⚠️  Has Errors")
		} else {
			sb.WriteString(" ✅ No Errors")
		}
	}

	sb.WriteString("\n\n🔍 AUDIT FEEDBACK:\n")
	for _, fb := range res.AuditFeedback {
		fmt.Fprintf(&sb, "\n• %s: %s", fb.Pillar, fb.Agent)
		if fb.HasFlaws {
			sb.WriteString(" ⚠️  Has Flaws")
		} else {
			sb.WriteString(" ✅ No Flaws")
		}
	}

	if res.Summary != "" {
		fmt.Fprintf(&sb, "\n\n📄 FINAL ARCHITECTURE SUMMARY:\n%s\n", res.Summary)
	}

	return sb.String()
}
