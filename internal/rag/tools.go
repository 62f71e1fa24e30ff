package rag

import (
	"context"

	"cloudy-intel/internal/tools"
)

// Searcher produces documentation context for a query.
type Searcher interface {
	Context(ctx context.Context, query string, k int) (string, error)
}

// ArchitectTools returns the documentation tools architect agents search
// with.
func ArchitectTools(s Searcher) []tools.Tool {
	return []tools.Tool{
		docTool(s, "search_architecture_docs", "Search cloud architecture documentation for design patterns and best practices"),
		docTool(s, "search_service_docs", "Search specific cloud service documentation for configuration details"),
		docTool(s, "search_pricing_docs", "Search pricing documentation for cost considerations"),
	}
}

// ValidatorTools returns the documentation tools validator agents search
// with.
func ValidatorTools(s Searcher) []tools.Tool {
	return []tools.Tool{
		docTool(s, "search_service_compatibility", "Search documentation for service compatibility and requirements"),
		docTool(s, "search_configuration_docs", "Search configuration documentation for technical specifications"),
		docTool(s, "search_limits_docs", "Search documentation for service limits and quotas"),
	}
}

// AuditorTools returns the documentation tools pillar auditors search with.
func AuditorTools(s Searcher) []tools.Tool {
	return []tools.Tool{
		docTool(s, "search_security_docs", "Search security documentation and best practices"),
		docTool(s, "search_cost_optimization_docs", "Search cost optimization documentation and recommendations"),
		docTool(s, "search_reliability_docs", "Search reliability documentation and high availability patterns"),
		docTool(s, "search_performance_docs", "Search performance optimization documentation and best practices"),
		docTool(s, "search_operational_docs", "Search operational excellence documentation and best practices"),
	}
}

func docTool(s Searcher, name, description string) tools.Tool {
	return tools.Func{
		ToolName:        name,
		ToolDescription: description,
		Fn: func(ctx context.Context, query string) (string, error) {
			return s.Context(ctx, query, DefaultTopK)
		},
	}
}
