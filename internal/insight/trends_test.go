package insight

import (
	"reflect"
	"testing"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func analysisWith(concerns, observations []string, flags ...pipeline.RiskFlag) pipeline.PipelineResult {
	data := pipeline.EmptyStructuredVisitData()
	data.Concerns = concerns
	data.KeyObservations = observations
	return pipeline.PipelineResult{
		CleanedTranscript: "Patient seen at home. Notes recorded during a routine caregiver visit covering meals, medications, and mobility around the apartment.",
		StructuredData:    data,
		Risks:             pipeline.RiskAnalysis{RiskFlags: flags},
	}
}

func TestComputeTrendAnalysisNoPrevious(t *testing.T) {
	latest := analysisWith([]string{"poor appetite"}, []string{"tired"}, pipeline.RiskFlag{Risk: "Nutrition", Severity: pipeline.SeverityMedium})
	got := ComputeTrendAnalysis(latest, nil)
	if len(got.NewFindings) != 0 || len(got.WorseningSignals) != 0 || len(got.Improvements) != 0 {
		t.Fatalf("expected all-empty result without a previous analysis, got %+v", got)
	}
	if got.NewFindings == nil || got.WorseningSignals == nil || got.Improvements == nil {
		t.Fatal("lists must be empty, not nil")
	}
}

func TestComputeTrendAnalysisDeduplicatesFindings(t *testing.T) {
	// A concern and an observation that normalize to the same string must
	// produce one finding, not two.
	previous := analysisWith([]string{"Slept through lunch."}, []string{"slept through lunch"})
	latest := analysisWith([]string{"Refused dinner."}, []string{"refused dinner"})
	got := ComputeTrendAnalysis(latest, &previous)

	if !reflect.DeepEqual(got.NewFindings, []string{"refused dinner"}) {
		t.Fatalf("new findings = %#v", got.NewFindings)
	}
	if !reflect.DeepEqual(got.Improvements, []string{"slept through lunch"}) {
		t.Fatalf("improvements = %#v", got.Improvements)
	}
}

func TestComputeTrendAnalysisFindings(t *testing.T) {
	previous := analysisWith([]string{"Poor appetite."}, []string{"Seemed tired"})
	latest := analysisWith([]string{"poor appetite"}, []string{"New bruise on arm"})
	got := ComputeTrendAnalysis(latest, &previous)

	// "poor appetite" matches after normalization despite the trailing period.
	if !reflect.DeepEqual(got.NewFindings, []string{"new bruise on arm"}) {
		t.Fatalf("new findings = %#v", got.NewFindings)
	}
	if !reflect.DeepEqual(got.Improvements, []string{"seemed tired"}) {
		t.Fatalf("improvements = %#v", got.Improvements)
	}
}

func TestComputeTrendAnalysisWorsening(t *testing.T) {
	previous := analysisWith(nil, nil,
		pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityLow},
		pipeline.RiskFlag{Risk: "Dehydration", Severity: pipeline.SeverityLow},
		pipeline.RiskFlag{Risk: "Skin integrity", Severity: pipeline.SeverityMedium},
	)
	latest := analysisWith(nil, nil,
		pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityHigh},
		pipeline.RiskFlag{Risk: "Dehydration", Severity: pipeline.SeverityMedium},
		pipeline.RiskFlag{Risk: "Skin integrity", Severity: pipeline.SeverityHigh},
		pipeline.RiskFlag{Risk: "Medication adherence", Severity: pipeline.SeverityLow},
	)
	got := ComputeTrendAnalysis(latest, &previous)
	want := []string{
		"Fall risk severity increased",
		"Dehydration severity increased",
		"Skin integrity severity increased",
		"Medication adherence newly identified",
	}
	if !reflect.DeepEqual(got.WorseningSignals, want) {
		t.Fatalf("worsening = %#v, want %#v", got.WorseningSignals, want)
	}
}

func TestComputeTrendAnalysisDowngradeNotFlagged(t *testing.T) {
	previous := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityHigh})
	latest := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityLow})
	got := ComputeTrendAnalysis(latest, &previous)
	if len(got.WorseningSignals) != 0 {
		t.Fatalf("downgrades must not be flagged, got %#v", got.WorseningSignals)
	}
}

func TestComputeTrendAnalysisScenarioFallRisk(t *testing.T) {
	v1 := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityLow})
	v2 := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityHigh})
	got := ComputeTrendAnalysis(v2, &v1)
	if !reflect.DeepEqual(got.WorseningSignals, []string{"Fall risk severity increased"}) {
		t.Fatalf("worsening = %#v", got.WorseningSignals)
	}
}

func TestComputeTrendAnalysisRiskNameCaseInsensitive(t *testing.T) {
	previous := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "fall RISK", Severity: pipeline.SeverityLow})
	latest := analysisWith(nil, nil, pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityLow})
	got := ComputeTrendAnalysis(latest, &previous)
	if len(got.WorseningSignals) != 0 {
		t.Fatalf("matching names must compare case-insensitively, got %#v", got.WorseningSignals)
	}
}

func TestTrendSymmetry(t *testing.T) {
	a := analysisWith([]string{"poor appetite", "mild confusion"}, []string{"bruise on arm"})
	b := analysisWith([]string{"poor appetite"}, []string{"slept well"})
	forward := ComputeTrendAnalysis(a, &b)
	backward := ComputeTrendAnalysis(b, &a)
	if !reflect.DeepEqual(forward.Improvements, backward.NewFindings) {
		t.Fatalf("improvements(A,B)=%#v must equal newFindings(B,A)=%#v", forward.Improvements, backward.NewFindings)
	}
	if !reflect.DeepEqual(forward.NewFindings, backward.Improvements) {
		t.Fatalf("newFindings(A,B)=%#v must equal improvements(B,A)=%#v", forward.NewFindings, backward.Improvements)
	}
}
