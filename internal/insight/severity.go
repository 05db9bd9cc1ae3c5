package insight

import (
	"sort"
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// severityRank orders severities for sorting: high before medium before
// low. Raw values are accepted defensively even though pipeline flags are
// normalized at parse time, so "moderate" and "urgent" still rank sensibly.
func severityRank(s pipeline.Severity) int {
	switch strings.ToLower(string(s)) {
	case "high", "urgent":
		return 0
	case "medium", "moderate":
		return 1
	default:
		return 2
	}
}

func severityLabel(s pipeline.Severity) string {
	switch severityRank(s) {
	case 0:
		return "High"
	case 1:
		return "Medium"
	default:
		return "Low"
	}
}

// HighestSeverity returns the top severity present in the flag list, or ""
// when the list is empty.
func HighestSeverity(flags []pipeline.RiskFlag) pipeline.Severity {
	if len(flags) == 0 {
		return ""
	}
	best := 3
	for _, f := range flags {
		if r := severityRank(f.Severity); r < best {
			best = r
		}
	}
	switch best {
	case 0:
		return pipeline.SeverityHigh
	case 1:
		return pipeline.SeverityMedium
	default:
		return pipeline.SeverityLow
	}
}

// SortBySeverity returns a new slice ordered high, then medium, then low.
// Flags of equal severity keep their relative input order.
func SortBySeverity(flags []pipeline.RiskFlag) []pipeline.RiskFlag {
	out := append([]pipeline.RiskFlag(nil), flags...)
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	return out
}
