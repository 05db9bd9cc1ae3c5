// Package session owns the per-session patient list, the active-patient
// selection, and each patient's analysis history. The pipeline and the
// insight engine never hold this state; they read and write through the
// Store boundary only.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

var ErrPatientNotFound = errors.New("patient not found")

type Patient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
	// Analyses is ordered newest-first and grows monotonically.
	Analyses []pipeline.PipelineResult `json:"analyses"`
}

// Store is the session-scoped patient repository. AppendAnalysis is atomic
// with respect to other appends on the same patient; only fully-completed
// pipeline results are ever appended.
type Store interface {
	ListPatients() []Patient
	GetPatient(id string) (Patient, bool)
	CreatePatient(name string, age int) (Patient, error)
	AppendAnalysis(patientID string, result pipeline.PipelineResult) (pipeline.PipelineResult, error)
	SetActivePatient(id string) error
	ActivePatient() (Patient, bool)
}

// MemoryStore keeps all session state in memory. A single mutex serializes
// writes; appends to different patients touch disjoint histories but the
// store is small enough that finer locking buys nothing.
type MemoryStore struct {
	mu       sync.Mutex
	patients map[string]*Patient
	order    []string
	activeID string

	clock func() time.Time
	newID func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients: map[string]*Patient{},
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

func (s *MemoryStore) ListPatients() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patient, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, snapshotPatient(s.patients[id]))
	}
	return out
}

func (s *MemoryStore) GetPatient(id string) (Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return Patient{}, false
	}
	return snapshotPatient(p), true
}

func (s *MemoryStore) CreatePatient(name string, age int) (Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &Patient{ID: s.newID(), Name: name, Age: age, Analyses: []pipeline.PipelineResult{}}
	s.patients[p.ID] = p
	s.order = append(s.order, p.ID)
	return snapshotPatient(p), nil
}

// remove undoes a create whose write-through persistence failed.
func (s *MemoryStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patients, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}
}

// AppendAnalysis stamps the result with the current epoch-millisecond time
// and prepends it to the patient's history.
func (s *MemoryStore) AppendAnalysis(patientID string, result pipeline.PipelineResult) (pipeline.PipelineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[patientID]
	if !ok {
		return pipeline.PipelineResult{}, ErrPatientNotFound
	}
	result.Timestamp = s.clock().UnixMilli()
	p.Analyses = append([]pipeline.PipelineResult{result}, p.Analyses...)
	return result, nil
}

func (s *MemoryStore) SetActivePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return ErrPatientNotFound
	}
	s.activeID = id
	return nil
}

func (s *MemoryStore) ActivePatient() (Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[s.activeID]
	if !ok {
		return Patient{}, false
	}
	return snapshotPatient(p), true
}

// snapshotPatient copies the analyses slice so callers never alias the
// store's internal history.
func snapshotPatient(p *Patient) Patient {
	out := *p
	out.Analyses = append([]pipeline.PipelineResult(nil), p.Analyses...)
	if out.Analyses == nil {
		out.Analyses = []pipeline.PipelineResult{}
	}
	return out
}

// restore installs a patient loaded from persistence. Used by the SQLite
// store on open.
func (s *MemoryStore) restore(p Patient, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := snapshotPatient(&p)
	s.patients[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	if active {
		s.activeID = cp.ID
	}
}
