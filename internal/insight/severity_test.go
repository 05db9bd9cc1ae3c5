package insight

import (
	"testing"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func TestHighestSeverity(t *testing.T) {
	if got := HighestSeverity(nil); got != "" {
		t.Fatalf("empty list should yield no severity, got %q", got)
	}
	low := pipeline.RiskFlag{Risk: "a", Severity: pipeline.SeverityLow}
	med := pipeline.RiskFlag{Risk: "b", Severity: pipeline.SeverityMedium}
	high := pipeline.RiskFlag{Risk: "c", Severity: pipeline.SeverityHigh}

	if got := HighestSeverity([]pipeline.RiskFlag{low}); got != pipeline.SeverityLow {
		t.Fatalf("got %q", got)
	}
	if got := HighestSeverity([]pipeline.RiskFlag{low, med}); got != pipeline.SeverityMedium {
		t.Fatalf("got %q", got)
	}
	if got := HighestSeverity([]pipeline.RiskFlag{low, med, high}); got != pipeline.SeverityHigh {
		t.Fatalf("got %q", got)
	}
	// Raw "moderate" still counts as medium defensively.
	if got := HighestSeverity([]pipeline.RiskFlag{{Risk: "d", Severity: "moderate"}}); got != pipeline.SeverityMedium {
		t.Fatalf("got %q", got)
	}
}

func TestSortBySeverityStable(t *testing.T) {
	in := []pipeline.RiskFlag{
		{Risk: "low-1", Severity: pipeline.SeverityLow},
		{Risk: "med-1", Severity: pipeline.SeverityMedium},
		{Risk: "high-1", Severity: pipeline.SeverityHigh},
		{Risk: "med-2", Severity: "moderate"},
		{Risk: "high-2", Severity: pipeline.SeverityHigh},
		{Risk: "low-2", Severity: pipeline.SeverityLow},
	}
	got := SortBySeverity(in)
	wantOrder := []string{"high-1", "high-2", "med-1", "med-2", "low-1", "low-2"}
	for i, name := range wantOrder {
		if got[i].Risk != name {
			t.Fatalf("position %d = %q, want %q (full: %#v)", i, got[i].Risk, name, got)
		}
	}
	// Non-destructive: the input order is untouched.
	if in[0].Risk != "low-1" || in[5].Risk != "low-2" {
		t.Fatal("SortBySeverity must not mutate its input")
	}
}
