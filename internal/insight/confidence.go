package insight

import (
	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

type Confidence struct {
	Level     ConfidenceLevel `json:"level"`
	Reasoning string          `json:"reasoning"`
}

// Canned reasoning strings are part of the output contract so the UI stays
// deterministic and testable.
const (
	reasoningHighCorroborated = "Detailed transcript with broad section coverage and multiple corroborating risk signals."
	reasoningHighDetailed     = "Detailed transcript provided strong grounding for the extracted findings."
	reasoningMediumShort      = "Reasonable extraction, but the transcript is brief so some detail may be missing."
	reasoningMediumPartial    = "Reasonable extraction with partial section coverage; review before relying on it."
	reasoningLowShort         = "Very short transcript; extracted fields are likely incomplete."
	reasoningLowSparse        = "No concerns or observations were captured, leaving little to ground the analysis."
	reasoningLowGeneric       = "Limited information in this visit; treat the analysis as a rough draft."
)

// ComputeConfidence scores how well-grounded a single analysis is. It never
// consults a previous analysis.
func ComputeConfidence(a pipeline.PipelineResult) Confidence {
	transcriptLen := len(a.CleanedTranscript)
	populated := populatedFieldCount(a.StructuredData)
	riskCount := len(a.Risks.RiskFlags)
	noSignals := len(a.StructuredData.Concerns) == 0 && len(a.StructuredData.KeyObservations) == 0

	score := 0
	if transcriptLen > 150 {
		score++
	}
	if populated > 4 {
		score++
	}
	if riskCount >= 2 {
		score++
	}
	if transcriptLen < 50 {
		score--
	}
	if noSignals {
		score--
	}

	switch {
	case score >= 3:
		if riskCount >= 2 && populated > 4 {
			return Confidence{Level: ConfidenceHigh, Reasoning: reasoningHighCorroborated}
		}
		return Confidence{Level: ConfidenceHigh, Reasoning: reasoningHighDetailed}
	case score == 2:
		if transcriptLen <= 150 {
			return Confidence{Level: ConfidenceMedium, Reasoning: reasoningMediumShort}
		}
		return Confidence{Level: ConfidenceMedium, Reasoning: reasoningMediumPartial}
	default:
		if transcriptLen < 50 {
			return Confidence{Level: ConfidenceLow, Reasoning: reasoningLowShort}
		}
		if noSignals {
			return Confidence{Level: ConfidenceLow, Reasoning: reasoningLowSparse}
		}
		return Confidence{Level: ConfidenceLow, Reasoning: reasoningLowGeneric}
	}
}

// populatedFieldCount counts how many of the six structured sections carry
// content. The care level indicator is a classification, not a section, and
// is not counted.
func populatedFieldCount(d pipeline.StructuredVisitData) int {
	count := 0
	if d.VisitSummary != "" {
		count++
	}
	for _, list := range [][]string{
		d.KeyObservations,
		d.ActivitiesCompleted,
		d.MedicationNotes,
		d.Concerns,
		d.SuggestedFollowups,
	} {
		if len(list) > 0 {
			count++
		}
	}
	return count
}
