// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package relevance scopes a design run to the architecture domains a
// problem statement actually touches. Matching is a case-insensitive
// substring check against fixed per-domain keyword lists; a problem that
// matches no list fans out to every domain rather than under-covering.
package relevance

import (
	"strings"

	"cloudy-intel/internal/state"
)

var storageKeywords = []string{
	"store", "storage", "data", "file", "backup", "archive", "s3", "bucket",
	"volume", "disk", "nas", "filesystem", "object storage", "block storage",
	"retention", "lifecycle", "cold storage", "hot storage",
}

var databaseKeywords = []string{
	"database", "db", "sql", "nosql", "query", "table", "index", "transaction",
	"rds", "dynamodb", "postgres", "mysql", "oracle", "sql server", "mongodb",
	"redis", "cache", "data warehouse", "analytics", "reporting",
}

var computeKeywords = []string{
	"compute", "server", "instance", "cpu", "memory", "processing", "application",
	"api", "service", "microservice", "container", "docker", "kubernetes",
	"lambda", "function", "serverless", "ec2", "ecs", "eks", "fargate",
}

var networkKeywords = []string{
	"network", "vpc", "subnet", "security group", "load balancer", "dns",
	"cdn", "cloudfront", "route53", "vpn", "direct connect", "nat",
	"firewall", "routing", "bandwidth", "latency", "connectivity",
}

func matchesAny(problem string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(problem, kw) {
			return true
		}
	}
	return false
}

// RelevantDomains returns the domains whose keyword lists match the problem,
// in match-check order (storage, database, compute, network). An empty
// result never escapes: zero matches fall open to all four domains in
// canonical order.
func RelevantDomains(problem string) []state.Domain {
	lower := strings.ToLower(problem)

	var domains []state.Domain
	if matchesAny(lower, storageKeywords) {
		domains = append(domains, state.DomainStorage)
	}
	if matchesAny(lower, databaseKeywords) {
		domains = append(domains, state.DomainDatabase)
	}
	if matchesAny(lower, computeKeywords) {
		domains = append(domains, state.DomainCompute)
	}
	if matchesAny(lower, networkKeywords) {
		domains = append(domains, state.DomainNetwork)
	}

	if len(domains) == 0 {
		return state.AllDomains()
	}
	return domains
}

// DetermineRelevantAgents maps a problem statement to the architect agents
// needed for it. Total: every input yields at least one agent.
func DetermineRelevantAgents(problem string) []string {
	return Architects(RelevantDomains(problem))
}

// Architects maps domains to their architect agent ids.
func Architects(domains []state.Domain) []string {
	agents := make([]string, 0, len(domains))
	for _, d := range domains {
		agents = append(agents, state.ArchitectAgent(d))
	}
	return agents
}

// Validators maps domains to their validator agent ids.
func Validators(domains []state.Domain) []string {
	agents := make([]string, 0, len(domains))
	for _, d := range domains {
		agents = append(agents, state.ValidatorAgent(d))
	}
	return agents
}

// Auditors returns the auditor set. Audit coverage is never filtered: all
// five pillars review every architecture.
func Auditors() []string {
	pillars := state.AllPillars()
	agents := make([]string, 0, len(pillars))
	for _, p := range pillars {
		agents = append(agents, state.AuditorAgent(p))
	}
	return agents
}
