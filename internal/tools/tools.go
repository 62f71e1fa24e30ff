// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package tools provides the research capabilities agents draw on before
// their completion call: documentation search and live web search.
package tools

import (
	"context"
	"fmt"
	"strings"
)

// Tool is a named research capability. Run takes the user problem as the
// query and returns advisory text for the agent prompt.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, query string) (string, error)
}

// GatherContext runs every tool against the query and folds the outputs into
// one advisory context block. A failing tool degrades to an inline error line
// so one flaky source never blocks an agent.
func GatherContext(ctx context.Context, toolset []Tool, query string) string {
	var sb strings.Builder
	for _, tool := range toolset {
		result, err := tool.Run(ctx, query)
		if err != nil {
			sb.WriteString(fmt.Sprintf("\n%s: Error - %s\n", tool.Name(), err))
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s: %s\n", tool.Name(), result))
	}
	return sb.String()
}

// Func adapts a plain function into a Tool.
type Func struct {
	ToolName        string
	ToolDescription string
	Fn              func(ctx context.Context, query string) (string, error)
}

// Name returns the tool name agents see in their context block.
func (f Func) Name() string { return f.ToolName }

// Description returns the human-readable purpose of the tool.
func (f Func) Description() string { return f.ToolDescription }

// Run invokes the wrapped function.
func (f Func) Run(ctx context.Context, query string) (string, error) {
	return f.Fn(ctx, query)
}
