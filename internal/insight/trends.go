package insight

import (
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

type TrendAnalysis struct {
	NewFindings      []string `json:"new_findings"`
	WorseningSignals []string `json:"worsening_signals"`
	Improvements     []string `json:"improvements"`
}

// ComputeTrendAnalysis compares the latest analysis against the previous
// one. With no previous analysis every list is empty. Findings are reported
// in normalized form, each distinct finding at most once; worsening signals
// keep the flag's original risk name.
//
// Severity escalation is deliberately asymmetric: a flag worsens when it
// reaches high from anything lower, or medium from low. low->medium via
// "moderate" relabeling and any downgrade are not flagged.
func ComputeTrendAnalysis(latest pipeline.PipelineResult, previous *pipeline.PipelineResult) TrendAnalysis {
	out := TrendAnalysis{
		NewFindings:      []string{},
		WorseningSignals: []string{},
		Improvements:     []string{},
	}
	if previous == nil {
		return out
	}

	latestFindings := findings(latest)
	previousFindings := findings(*previous)
	previousSet := normalizedSet(previousFindings)
	latestSet := normalizedSet(latestFindings)

	emittedNew := map[string]bool{}
	for _, item := range latestFindings {
		if norm := normalizeText(item); !previousSet[norm] && !emittedNew[norm] {
			emittedNew[norm] = true
			out.NewFindings = append(out.NewFindings, norm)
		}
	}

	previousFlags := make(map[string]pipeline.Severity, len(previous.Risks.RiskFlags))
	for _, f := range previous.Risks.RiskFlags {
		previousFlags[strings.ToLower(f.Risk)] = f.Severity
	}
	for _, f := range latest.Risks.RiskFlags {
		prevSev, known := previousFlags[strings.ToLower(f.Risk)]
		if !known {
			out.WorseningSignals = append(out.WorseningSignals, f.Risk+" newly identified")
			continue
		}
		if severityEscalated(prevSev, f.Severity) {
			out.WorseningSignals = append(out.WorseningSignals, f.Risk+" severity increased")
		}
	}

	emittedGone := map[string]bool{}
	for _, item := range previousFindings {
		if norm := normalizeText(item); !latestSet[norm] && !emittedGone[norm] {
			emittedGone[norm] = true
			out.Improvements = append(out.Improvements, norm)
		}
	}
	return out
}

func severityEscalated(previous, current pipeline.Severity) bool {
	prevRank, curRank := severityRank(previous), severityRank(current)
	if curRank == 0 && prevRank != 0 {
		return true
	}
	return curRank == 1 && prevRank == 2
}
