// Package insight derives cross-visit trends, confidence scores, escalation
// actions, and export documents from completed visit analyses. Every
// function is pure: all state is carried in the one or two analysis
// snapshots passed in.
package insight

import (
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// normalizeText lowercases, trims, and strips trailing periods so phrasing
// like "No falls." and "no falls" compares equal across visits.
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	return strings.TrimSpace(s)
}

// findings is the union of concerns and key observations, in input order.
func findings(a pipeline.PipelineResult) []string {
	out := make([]string, 0, len(a.StructuredData.Concerns)+len(a.StructuredData.KeyObservations))
	out = append(out, a.StructuredData.Concerns...)
	out = append(out, a.StructuredData.KeyObservations...)
	return out
}

func normalizedSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[normalizeText(item)] = true
	}
	return set
}
