package visitpipeline

const Disclaimer = "This analysis is generated automatically from caregiver notes. " +
	"It is advisory only and is not a diagnosis or a substitute for clinical judgment. " +
	"Review all findings with the supervising care team."

const (
	StepClean     = "clean"
	StepStructure = "structure"
	StepAnalyze   = "analyze"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type CareLevel string

const (
	CareLevelStable          CareLevel = "stable"
	CareLevelWatch           CareLevel = "watch"
	CareLevelAttentionNeeded CareLevel = "attention_needed"
)

// StructuredVisitData is the clinical snapshot extracted from one visit.
// List fields are never nil; absent sections decode to empty slices.
type StructuredVisitData struct {
	VisitSummary        string    `json:"visit_summary"`
	KeyObservations     []string  `json:"key_observations"`
	ActivitiesCompleted []string  `json:"activities_completed"`
	MedicationNotes     []string  `json:"medication_notes"`
	Concerns            []string  `json:"concerns"`
	SuggestedFollowups  []string  `json:"suggested_followups"`
	CareLevelIndicator  CareLevel `json:"care_level_indicator"`
}

// EmptyStructuredVisitData is the well-defined fallback used whenever the
// structuring stage produces output that cannot be parsed.
func EmptyStructuredVisitData() StructuredVisitData {
	return StructuredVisitData{
		KeyObservations:     []string{},
		ActivitiesCompleted: []string{},
		MedicationNotes:     []string{},
		Concerns:            []string{},
		SuggestedFollowups:  []string{},
		CareLevelIndicator:  CareLevelStable,
	}
}

type RiskFlag struct {
	Risk     string   `json:"risk"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

type RiskAnalysis struct {
	RiskFlags []RiskFlag `json:"risk_flags"`
}

// PipelineResult is one completed visit analysis. Timestamp is epoch
// milliseconds and is assigned by the session store at append time, not by
// the pipeline. Results are immutable once appended to a patient's history.
type PipelineResult struct {
	CleanedTranscript string              `json:"cleaned_transcript"`
	StructuredData    StructuredVisitData `json:"structured_data"`
	Risks             RiskAnalysis        `json:"risks"`
	Timestamp         int64               `json:"timestamp"`
}
