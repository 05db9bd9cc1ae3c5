package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// SQLiteStore implements Store with SQLite-backed persistence. Reads are
// served by an embedded MemoryStore; writes go through to SQLite before the
// in-memory state is updated, so a reopened store sees the same patients.
type SQLiteStore struct {
	inner *MemoryStore
	db    *sqlx.DB
	mu    sync.Mutex
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS patients (
	patient_id TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	age        INTEGER NOT NULL,
	position   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	patient_id TEXT NOT NULL,
	timestamp  INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (patient_id, timestamp, payload)
);

CREATE TABLE IF NOT EXISTS session_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{inner: NewMemoryStore(), db: db}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadAll() error {
	activeID := ""
	if err := s.db.Get(&activeID, "SELECT value FROM session_state WHERE key = 'active_patient'"); err != nil {
		activeID = ""
	}

	rows, err := s.db.Query("SELECT patient_id, name, age FROM patients ORDER BY position")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age); err != nil {
			return err
		}
		if err := s.loadAnalyses(&p); err != nil {
			return err
		}
		s.inner.restore(p, p.ID == activeID)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadAnalyses(p *Patient) error {
	rows, err := s.db.Query("SELECT payload FROM analyses WHERE patient_id = ? ORDER BY timestamp DESC", p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Analyses = []pipeline.PipelineResult{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		var result pipeline.PipelineResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			continue
		}
		p.Analyses = append(p.Analyses, result)
	}
	return rows.Err()
}

func (s *SQLiteStore) ListPatients() []Patient {
	return s.inner.ListPatients()
}

func (s *SQLiteStore) GetPatient(id string) (Patient, bool) {
	return s.inner.GetPatient(id)
}

func (s *SQLiteStore) CreatePatient(name string, age int) (Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.inner.CreatePatient(name, age)
	if err != nil {
		return Patient{}, err
	}
	if _, err := s.db.Exec(
		"INSERT INTO patients (patient_id, name, age, position) VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM patients))",
		p.ID, p.Name, p.Age,
	); err != nil {
		// Keep memory and disk in step: a patient that cannot be
		// persisted must not exist in the session either.
		s.inner.remove(p.ID)
		return Patient{}, fmt.Errorf("persist patient: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) AppendAnalysis(patientID string, result pipeline.PipelineResult) (pipeline.PipelineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.inner.AppendAnalysis(patientID, result)
	if err != nil {
		return pipeline.PipelineResult{}, err
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return pipeline.PipelineResult{}, err
	}
	if _, err := s.db.Exec(
		"INSERT INTO analyses (patient_id, timestamp, payload) VALUES (?, ?, ?)",
		patientID, stored.Timestamp, string(payload),
	); err != nil {
		return pipeline.PipelineResult{}, fmt.Errorf("persist analysis: %w", err)
	}
	return stored, nil
}

func (s *SQLiteStore) SetActivePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.inner.SetActivePatient(id); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT INTO session_state (key, value) VALUES ('active_patient', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		id,
	)
	return err
}

func (s *SQLiteStore) ActivePatient() (Patient, bool) {
	return s.inner.ActivePatient()
}
