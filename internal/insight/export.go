package insight

import (
	"fmt"
	"strings"
	"time"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

const (
	placeholderNoneIdentified = "None identified."
	placeholderRoutinePlan    = "Continue routine monitoring."
	placeholderNoSummary      = "No visit summary documented."
)

var softener = strings.NewReplacer(
	"indicates", "may suggest",
	"Indicates", "May suggest",
	"confirms", "consistent with",
	"Confirms", "Consistent with",
	"detected", "observed",
	"Detected", "Observed",
)

// softenClinicalLanguage rewrites assertive phrasing into the cautious
// register expected in caregiver-sourced documentation.
func softenClinicalLanguage(s string) string {
	return softener.Replace(s)
}

func exportDate(a pipeline.PipelineResult) string {
	ts := time.Now()
	if a.Timestamp > 0 {
		ts = time.UnixMilli(a.Timestamp)
	}
	return ts.Format("2006-01-02")
}

// BuildEMRExportText renders a plain-text document suitable for pasting
// into an EMR note. The section order Patient / Assessment / Clinical Risks
// / Plan is fixed for any input.
func BuildEMRExportText(patientName string, age int, a pipeline.PipelineResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s, Age %d\n", patientName, age)
	fmt.Fprintf(&b, "Date: %s\n\n", exportDate(a))

	b.WriteString("Assessment\n")
	if summary := strings.TrimSpace(a.StructuredData.VisitSummary); summary != "" {
		b.WriteString(softenClinicalLanguage(summary) + "\n")
	} else {
		b.WriteString(placeholderNoSummary + "\n")
	}
	for _, obs := range a.StructuredData.KeyObservations {
		if strings.TrimSpace(obs) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", softenClinicalLanguage(obs))
	}

	b.WriteString("\nClinical Risks\n")
	if len(a.Risks.RiskFlags) == 0 {
		b.WriteString(placeholderNoneIdentified + "\n")
	} else {
		for _, f := range SortBySeverity(a.Risks.RiskFlags) {
			fmt.Fprintf(&b, "- %s (%s): %s\n", f.Risk, severityLabel(f.Severity), softenClinicalLanguage(f.Reason))
		}
	}

	b.WriteString("\nPlan\n")
	planLines := append([]string{}, GenerateEscalation(a.Risks.RiskFlags)...)
	for _, follow := range a.StructuredData.SuggestedFollowups {
		if strings.TrimSpace(follow) != "" {
			planLines = append(planLines, softenClinicalLanguage(follow))
		}
	}
	if len(planLines) == 0 {
		b.WriteString(placeholderRoutinePlan + "\n")
	} else {
		for _, line := range planLines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	b.WriteString("\n" + pipeline.Disclaimer + "\n")
	return b.String()
}

// BuildExportText renders the caregiver-facing summary variant.
func BuildExportText(patientName string, age int, a pipeline.PipelineResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s, Age %d\n", patientName, age)
	fmt.Fprintf(&b, "Date: %s\n\n", exportDate(a))

	b.WriteString("Summary\n")
	if summary := strings.TrimSpace(a.StructuredData.VisitSummary); summary != "" {
		b.WriteString(softenClinicalLanguage(summary) + "\n")
	} else {
		b.WriteString(placeholderNoSummary + "\n")
	}

	writeListSection(&b, "Activities Completed", a.StructuredData.ActivitiesCompleted)
	writeListSection(&b, "Medication Notes", a.StructuredData.MedicationNotes)
	writeListSection(&b, "Concerns", a.StructuredData.Concerns)

	b.WriteString("\nNext Steps\n")
	actions := GenerateEscalation(a.Risks.RiskFlags)
	for _, follow := range a.StructuredData.SuggestedFollowups {
		if strings.TrimSpace(follow) != "" {
			actions = append(actions, softenClinicalLanguage(follow))
		}
	}
	if len(actions) == 0 {
		b.WriteString(placeholderRoutinePlan + "\n")
	} else {
		for _, action := range actions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
	}
	return b.String()
}

func writeListSection(b *strings.Builder, title string, items []string) {
	b.WriteString("\n" + title + "\n")
	wrote := false
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", softenClinicalLanguage(item))
		wrote = true
	}
	if !wrote {
		b.WriteString(placeholderNoneIdentified + "\n")
	}
}
