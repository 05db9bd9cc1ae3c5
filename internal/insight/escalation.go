package insight

import (
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

const (
	actionNotifyClinician   = "Notify the supervising clinician about high-severity findings."
	actionMonitor24h        = "Increase monitoring over the next 24 hours and reassess."
	actionFallPrecautions   = "Review the home environment for fall hazards and reinforce fall precautions."
	actionMedicationReview  = "Schedule a medication review with the care team."
	actionRoutineMonitoring = "Continue routine monitoring."
)

// GenerateEscalation derives an ordered list of follow-up actions from the
// risk flags. When risks exist but no specific rule fires, the generic
// routine-monitoring action is returned so the plan is never silent.
func GenerateEscalation(flags []pipeline.RiskFlag) []string {
	actions := []string{}

	highCount, mediumCount := 0, 0
	for _, f := range flags {
		switch severityRank(f.Severity) {
		case 0:
			highCount++
		case 1:
			mediumCount++
		}
	}

	if highCount > 0 {
		actions = append(actions, actionNotifyClinician)
	}
	if mediumCount >= 2 {
		actions = append(actions, actionMonitor24h)
	}
	if anyRiskContains(flags, "fall") {
		actions = append(actions, actionFallPrecautions)
	}
	if anyRiskContains(flags, "medication") || anyRiskContains(flags, "med") {
		actions = append(actions, actionMedicationReview)
	}
	if len(flags) > 0 && len(actions) == 0 {
		actions = append(actions, actionRoutineMonitoring)
	}
	return actions
}

func anyRiskContains(flags []pipeline.RiskFlag, needle string) bool {
	for _, f := range flags {
		if strings.Contains(strings.ToLower(f.Risk), needle) {
			return true
		}
	}
	return false
}
