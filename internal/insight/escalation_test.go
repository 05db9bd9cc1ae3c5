package insight

import (
	"reflect"
	"testing"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func TestGenerateEscalation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		flags []pipeline.RiskFlag
		want  []string
	}{
		{
			name:  "no flags no actions",
			flags: nil,
			want:  []string{},
		},
		{
			name: "single low flag falls back to routine monitoring",
			flags: []pipeline.RiskFlag{
				{Risk: "Appetite", Severity: pipeline.SeverityLow, Reason: "smaller portions"},
			},
			want: []string{actionRoutineMonitoring},
		},
		{
			name: "high flag notifies clinician",
			flags: []pipeline.RiskFlag{
				{Risk: "Breathing difficulty", Severity: pipeline.SeverityHigh, Reason: "labored breathing"},
			},
			want: []string{actionNotifyClinician},
		},
		{
			name: "two mediums trigger monitoring window",
			flags: []pipeline.RiskFlag{
				{Risk: "Hydration", Severity: pipeline.SeverityMedium},
				{Risk: "Appetite", Severity: pipeline.SeverityMedium},
			},
			want: []string{actionMonitor24h},
		},
		{
			name: "fall keyword adds fall precautions",
			flags: []pipeline.RiskFlag{
				{Risk: "Fall risk", Severity: pipeline.SeverityHigh, Reason: "unsteady gait"},
			},
			want: []string{actionNotifyClinician, actionFallPrecautions},
		},
		{
			name: "medication keyword adds medication review",
			flags: []pipeline.RiskFlag{
				{Risk: "Medication adherence", Severity: pipeline.SeverityLow, Reason: "missed dose"},
			},
			want: []string{actionMedicationReview},
		},
		{
			name: "everything at once keeps the fixed order",
			flags: []pipeline.RiskFlag{
				{Risk: "Fall risk", Severity: pipeline.SeverityHigh},
				{Risk: "Missed meds", Severity: pipeline.SeverityMedium},
				{Risk: "Dehydration", Severity: pipeline.SeverityMedium},
			},
			want: []string{actionNotifyClinician, actionMonitor24h, actionFallPrecautions, actionMedicationReview},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateEscalation(tc.flags)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("actions = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestContributingSignals(t *testing.T) {
	flag := pipeline.RiskFlag{Risk: "Fall risk", Severity: pipeline.SeverityHigh, Reason: "Unsteady gait near the stairs."}
	concerns := []string{"Nearly fell on the stairs", "Poor appetite"}
	observations := []string{"Gait unsteady when standing up", "Slept most of the afternoon"}

	got := ContributingSignals(flag, concerns, observations)
	want := []string{"Nearly fell on the stairs", "Gait unsteady when standing up"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("signals = %#v, want %#v", got, want)
	}
}

func TestContributingSignalsFallback(t *testing.T) {
	flag := pipeline.RiskFlag{Risk: "Hydration", Severity: pipeline.SeverityLow, Reason: "Low fluid intake reported."}
	got := ContributingSignals(flag, []string{"poor appetite"}, nil)
	if !reflect.DeepEqual(got, []string{flag.Reason}) {
		t.Fatalf("expected reason fallback, got %#v", got)
	}
}

func TestSignalTokensSkipShortWords(t *testing.T) {
	tokens := signalTokens("Fall risk due to wet mat")
	for _, tok := range tokens {
		if len(tok) <= 3 {
			t.Fatalf("token %q should have been filtered", tok)
		}
	}
}
