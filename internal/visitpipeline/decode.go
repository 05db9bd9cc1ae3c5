package visitpipeline

import (
	"encoding/json"
	"strings"
)

// NormalizeSeverity maps free-form model severities onto the closed set.
// Unrecognized input always lands on low, never an error.
func NormalizeSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "medium", "moderate":
		return SeverityMedium
	case "high", "urgent":
		return SeverityHigh
	default:
		return SeverityLow
	}
}

func normalizeCareLevel(raw string) CareLevel {
	switch CareLevel(raw) {
	case CareLevelStable, CareLevelWatch, CareLevelAttentionNeeded:
		return CareLevel(raw)
	default:
		return CareLevelStable
	}
}

// DecodeStructuredVisitData parses a structuring-stage completion. It never
// fails: any unparseable or non-object payload yields the empty default.
// Non-string array elements coerce to "" so array length is preserved.
func DecodeStructuredVisitData(raw string) StructuredVisitData {
	out := EmptyStructuredVisitData()
	var payload map[string]any
	if err := json.Unmarshal([]byte(ExtractJSONObject(raw)), &payload); err != nil || payload == nil {
		return out
	}
	out.VisitSummary = stringField(payload, "visit_summary")
	out.KeyObservations = stringListField(payload, "key_observations")
	out.ActivitiesCompleted = stringListField(payload, "activities_completed")
	out.MedicationNotes = stringListField(payload, "medication_notes")
	out.Concerns = stringListField(payload, "concerns")
	out.SuggestedFollowups = stringListField(payload, "suggested_followups")
	out.CareLevelIndicator = normalizeCareLevel(stringField(payload, "care_level_indicator"))
	return out
}

// DecodeRiskAnalysis parses a risk-stage completion. Malformed payloads
// yield an empty flag list; non-object flag entries are dropped and flag
// fields coerce individually.
func DecodeRiskAnalysis(raw string) RiskAnalysis {
	out := RiskAnalysis{RiskFlags: []RiskFlag{}}
	var payload map[string]any
	if err := json.Unmarshal([]byte(ExtractJSONObject(raw)), &payload); err != nil || payload == nil {
		return out
	}
	items, ok := payload["risk_flags"].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		risk, _ := obj["risk"].(string)
		reason, _ := obj["reason"].(string)
		severity, _ := obj["severity"].(string)
		out.RiskFlags = append(out.RiskFlags, RiskFlag{
			Risk:     risk,
			Severity: NormalizeSeverity(severity),
			Reason:   reason,
		})
	}
	return out
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func stringListField(payload map[string]any, key string) []string {
	items, ok := payload[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, _ := item.(string)
		out[i] = s
	}
	return out
}
