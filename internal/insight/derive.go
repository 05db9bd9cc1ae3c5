package insight

import (
	"fmt"
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

const (
	bannerEscalation    = "Escalation recommended: review the flagged changes with the care team."
	bannerChanges       = "Changes noted since the previous visit."
	bannerHighRisk      = "A high-severity risk was flagged for this visit."
	bannerFirstAnalysis = "First analysis recorded for this patient."
	bannerStable        = "Patient appears stable since the previous visit."
)

// SnapshotText is the one-paragraph status shown at the top of a patient
// view: the softened summary plus the current top risk severity.
func SnapshotText(latest pipeline.PipelineResult) string {
	summary := strings.TrimSpace(latest.StructuredData.VisitSummary)
	if summary == "" {
		summary = "Visit recorded; no structured summary available."
	} else {
		summary = softenClinicalLanguage(summary)
	}
	if sev := HighestSeverity(latest.Risks.RiskFlags); sev != "" {
		return fmt.Sprintf("%s Highest current risk severity: %s.", summary, sev)
	}
	return summary
}

// KeyTakeaway picks the single most important line for the visit, in
// priority order: worsening signals, then new findings, then a standing
// high-severity risk, then stability.
func KeyTakeaway(latest pipeline.PipelineResult, previous *pipeline.PipelineResult) string {
	trend := ComputeTrendAnalysis(latest, previous)
	if len(trend.WorseningSignals) > 0 {
		return "Needs attention: " + trend.WorseningSignals[0]
	}
	if len(trend.NewFindings) > 0 {
		return "New this visit: " + trend.NewFindings[0]
	}
	if HighestSeverity(latest.Risks.RiskFlags) == pipeline.SeverityHigh {
		for _, f := range SortBySeverity(latest.Risks.RiskFlags) {
			if severityRank(f.Severity) == 0 {
				return "High-severity risk: " + f.Risk
			}
		}
	}
	if previous == nil {
		return "First recorded visit for this patient."
	}
	return "No significant changes since the last visit."
}

// TrendChips renders short labels for the trend chips row, worsening first.
func TrendChips(latest pipeline.PipelineResult, previous *pipeline.PipelineResult) []string {
	trend := ComputeTrendAnalysis(latest, previous)
	chips := []string{}
	for _, s := range trend.WorseningSignals {
		chips = append(chips, "Worsening: "+s)
	}
	for _, s := range trend.NewFindings {
		chips = append(chips, "New: "+s)
	}
	for _, s := range trend.Improvements {
		chips = append(chips, "Improved: "+s)
	}
	return chips
}

// BannerMessage selects the patient-level banner with the same priority
// order as KeyTakeaway.
func BannerMessage(latest pipeline.PipelineResult, previous *pipeline.PipelineResult) string {
	trend := ComputeTrendAnalysis(latest, previous)
	switch {
	case len(trend.WorseningSignals) > 0:
		return bannerEscalation
	case len(trend.NewFindings) > 0:
		return bannerChanges
	case HighestSeverity(latest.Risks.RiskFlags) == pipeline.SeverityHigh:
		return bannerHighRisk
	case previous == nil:
		return bannerFirstAnalysis
	default:
		return bannerStable
	}
}
