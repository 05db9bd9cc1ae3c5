package insight

import (
	"fmt"
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// BuildReportMarkdown renders the full visit report consumed by the HTML
// and PDF export endpoints.
func BuildReportMarkdown(patientName string, age int, latest pipeline.PipelineResult, previous *pipeline.PipelineResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Visit Insight Report\n\n")
	fmt.Fprintf(&b, "- Patient: %s, Age %d\n", patientName, age)
	fmt.Fprintf(&b, "- Date: %s\n\n", exportDate(latest))
	fmt.Fprintf(&b, "%s\n\n", pipeline.Disclaimer)

	fmt.Fprintf(&b, "## Snapshot\n\n%s\n\n", SnapshotText(latest))
	fmt.Fprintf(&b, "**%s**\n\n", KeyTakeaway(latest, previous))

	fmt.Fprintf(&b, "## Assessment\n\n")
	if summary := strings.TrimSpace(latest.StructuredData.VisitSummary); summary != "" {
		fmt.Fprintf(&b, "%s\n\n", softenClinicalLanguage(summary))
	} else {
		fmt.Fprintf(&b, "%s\n\n", placeholderNoSummary)
	}
	for _, obs := range latest.StructuredData.KeyObservations {
		if strings.TrimSpace(obs) != "" {
			fmt.Fprintf(&b, "- %s\n", softenClinicalLanguage(obs))
		}
	}
	fmt.Fprintf(&b, "\nCare level: `%s`\n\n", latest.StructuredData.CareLevelIndicator)

	fmt.Fprintf(&b, "## Clinical Risks\n\n")
	flags := SortBySeverity(latest.Risks.RiskFlags)
	if len(flags) == 0 {
		fmt.Fprintf(&b, "%s\n", placeholderNoneIdentified)
	}
	for _, f := range flags {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.Risk, severityLabel(f.Severity), softenClinicalLanguage(f.Reason))
		for _, signal := range ContributingSignals(f, latest.StructuredData.Concerns, latest.StructuredData.KeyObservations) {
			fmt.Fprintf(&b, "  - signal: %s\n", signal)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Trends\n\n")
	if previous == nil {
		fmt.Fprintf(&b, "No previous visit to compare against.\n\n")
	} else {
		chips := TrendChips(latest, previous)
		if len(chips) == 0 {
			fmt.Fprintf(&b, "No changes since the previous visit.\n")
		}
		for _, chip := range chips {
			fmt.Fprintf(&b, "- %s\n", chip)
		}
		b.WriteString("\n")
	}

	conf := ComputeConfidence(latest)
	fmt.Fprintf(&b, "## Confidence\n\n")
	fmt.Fprintf(&b, "- Level: **%s**\n", conf.Level)
	fmt.Fprintf(&b, "- %s\n\n", conf.Reasoning)

	fmt.Fprintf(&b, "## Plan\n\n")
	actions := GenerateEscalation(latest.Risks.RiskFlags)
	if len(actions) == 0 {
		fmt.Fprintf(&b, "%s\n", placeholderRoutinePlan)
	}
	for _, action := range actions {
		fmt.Fprintf(&b, "- %s\n", action)
	}
	for _, follow := range latest.StructuredData.SuggestedFollowups {
		if strings.TrimSpace(follow) != "" {
			fmt.Fprintf(&b, "- %s\n", softenClinicalLanguage(follow))
		}
	}
	return b.String()
}
