package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func sampleResult(summary string) pipeline.PipelineResult {
	data := pipeline.EmptyStructuredVisitData()
	data.VisitSummary = summary
	return pipeline.PipelineResult{
		CleanedTranscript: "cleaned notes",
		StructuredData:    data,
		Risks:             pipeline.RiskAnalysis{RiskFlags: []pipeline.RiskFlag{}},
	}
}

func mustCreate(t *testing.T, s Store, name string, age int) Patient {
	t.Helper()
	p, err := s.CreatePatient(name, age)
	if err != nil {
		t.Fatalf("CreatePatient(%q): %v", name, err)
	}
	return p
}

func TestCreateAndListPatients(t *testing.T) {
	s := NewMemoryStore()
	a := mustCreate(t, s, "Edna Marsh", 84)
	b := mustCreate(t, s, "Ray Holt", 79)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct patient ids, got %q and %q", a.ID, b.ID)
	}
	list := s.ListPatients()
	if len(list) != 2 || list[0].Name != "Edna Marsh" || list[1].Name != "Ray Holt" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Analyses == nil {
		t.Fatal("analyses must never be nil")
	}
}

func TestAppendAnalysisNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	now := time.UnixMilli(1_700_000_000_000)
	s.clock = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	p := mustCreate(t, s, "Edna Marsh", 84)

	first, err := s.AppendAnalysis(p.ID, sampleResult("first visit"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Timestamp == 0 {
		t.Fatal("append must stamp the result")
	}
	second, err := s.AppendAnalysis(p.ID, sampleResult("second visit"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second.Timestamp <= first.Timestamp {
		t.Fatal("timestamps must be monotonic under the fake clock")
	}

	got, _ := s.GetPatient(p.ID)
	if len(got.Analyses) != 2 {
		t.Fatalf("history length = %d", len(got.Analyses))
	}
	if got.Analyses[0].StructuredData.VisitSummary != "second visit" {
		t.Fatal("history must be ordered newest-first")
	}
}

func TestAppendAnalysisUnknownPatient(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.AppendAnalysis("missing", sampleResult("x")); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestActivePatientSelection(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.ActivePatient(); ok {
		t.Fatal("no active patient expected initially")
	}
	if err := s.SetActivePatient("missing"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	p := mustCreate(t, s, "Edna Marsh", 84)
	if err := s.SetActivePatient(p.ID); err != nil {
		t.Fatalf("SetActivePatient: %v", err)
	}
	active, ok := s.ActivePatient()
	if !ok || active.ID != p.ID {
		t.Fatalf("active = %+v ok=%v", active, ok)
	}
}

func TestSnapshotsDoNotAliasHistory(t *testing.T) {
	s := NewMemoryStore()
	p := mustCreate(t, s, "Edna Marsh", 84)
	if _, err := s.AppendAnalysis(p.ID, sampleResult("first")); err != nil {
		t.Fatalf("append: %v", err)
	}
	snap, _ := s.GetPatient(p.ID)
	snap.Analyses[0].StructuredData.VisitSummary = "mutated"
	fresh, _ := s.GetPatient(p.ID)
	if fresh.Analyses[0].StructuredData.VisitSummary != "first" {
		t.Fatal("store history must not be reachable through snapshots")
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	p := mustCreate(t, s, "Edna Marsh", 84)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AppendAnalysis(p.ID, sampleResult("visit")); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()
	got, _ := s.GetPatient(p.ID)
	if len(got.Analyses) != 20 {
		t.Fatalf("expected 20 analyses, got %d", len(got.Analyses))
	}
}
