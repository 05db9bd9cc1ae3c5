// Package httpapi exposes the visit-processing pipeline, session store, and
// insight engine over HTTP for the UI layer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebridge/visit-insights/internal/insight"
	"github.com/carebridge/visit-insights/internal/report"
	"github.com/carebridge/visit-insights/internal/session"
	"github.com/carebridge/visit-insights/internal/transcribe"
	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// PDFRenderer prints a markdown report to PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, markdown string) ([]byte, error)
}

type Config struct {
	Store       session.Store
	Pipeline    *pipeline.Pipeline
	Transcriber transcribe.Transcriber
	PDF         PDFRenderer
	Logger      zerolog.Logger
}

type Server struct {
	cfg Config

	// analyzeMu serializes pipeline invocations: each analysis runs to
	// completion or failure before another may start.
	analyzeMu sync.Mutex
}

func NewServer(cfg Config) http.Handler {
	s := &Server{cfg: cfg}
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/transcribe", s.handleTranscribe)
	mux.HandleFunc("/patients", s.handlePatients)
	mux.HandleFunc("/patients/select", s.handlePatientSelect)
	mux.HandleFunc("/patients/", s.handlePatientSub)
	mux.HandleFunc("/health", s.handleHealth)
	return s.withLogging(mux)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                 true,
		"analysis_enabled":   s.cfg.Pipeline != nil,
		"transcribe_enabled": s.cfg.Transcriber != nil,
		"pdf_enabled":        s.cfg.PDF != nil,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Transcript string `json:"transcript"`
		PatientID  string `json:"patient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}
	if s.cfg.Pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service is not configured")
		return
	}

	s.analyzeMu.Lock()
	result, err := s.cfg.Pipeline.Analyze(r.Context(), req.Transcript)
	s.analyzeMu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "transcript is required")
		case errors.Is(err, pipeline.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "analysis service is not configured")
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"step":    pipeline.StepFromError(err),
				"message": err.Error(),
			})
		}
		return
	}

	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		if active, ok := s.cfg.Store.ActivePatient(); ok {
			patientID = active.ID
		}
	}
	if patientID == "" {
		// No patient selected: return the result without storing it.
		writeJSON(w, http.StatusOK, result)
		return
	}
	stored, err := s.cfg.Store.AppendAnalysis(patientID, result)
	if err != nil {
		if errors.Is(err, session.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, "patient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.cfg.Transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription service is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, transcribe.MaxAudioBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	text, err := s.cfg.Transcriber.Transcribe(r.Context(), file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		switch {
		case errors.Is(err, transcribe.ErrAudioTooLarge), errors.Is(err, transcribe.ErrUnsupportedAudioType):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, transcribe.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

func (s *Server) handlePatients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		active, _ := s.cfg.Store.ActivePatient()
		writeJSON(w, http.StatusOK, map[string]any{
			"patients":          s.cfg.Store.ListPatients(),
			"active_patient_id": active.ID,
		})
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Age <= 0 {
			writeError(w, http.StatusBadRequest, "name and a positive age are required")
			return
		}
		created, err := s.cfg.Store.CreatePatient(req.Name, req.Age)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePatientSelect(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		PatientID string `json:"patient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.cfg.Store.SetActivePatient(strings.TrimSpace(req.PatientID)); err != nil {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handlePatientSub(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/patients/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	patient, ok := s.cfg.Store.GetPatient(parts[0])
	if !ok {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	switch parts[1] {
	case "insights":
		s.renderInsights(w, patient)
	case "export":
		s.renderExport(w, r, patient)
	case "report":
		s.renderReport(w, patient)
	case "report.pdf":
		s.renderReportPDF(w, r, patient)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func latestAndPrevious(p session.Patient) (pipeline.PipelineResult, *pipeline.PipelineResult, bool) {
	if len(p.Analyses) == 0 {
		return pipeline.PipelineResult{}, nil, false
	}
	latest := p.Analyses[0]
	var previous *pipeline.PipelineResult
	if len(p.Analyses) > 1 {
		previous = &p.Analyses[1]
	}
	return latest, previous, true
}

type riskView struct {
	pipeline.RiskFlag
	Signals []string `json:"signals"`
}

func (s *Server) renderInsights(w http.ResponseWriter, patient session.Patient) {
	latest, previous, ok := latestAndPrevious(patient)
	if !ok {
		writeError(w, http.StatusNotFound, "patient has no analyses yet")
		return
	}
	risks := []riskView{}
	for _, f := range insight.SortBySeverity(latest.Risks.RiskFlags) {
		risks = append(risks, riskView{
			RiskFlag: f,
			Signals:  insight.ContributingSignals(f, latest.StructuredData.Concerns, latest.StructuredData.KeyObservations),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"patient_id":       patient.ID,
		"analyzed_at":      latest.Timestamp,
		"snapshot":         insight.SnapshotText(latest),
		"key_takeaway":     insight.KeyTakeaway(latest, previous),
		"banner":           insight.BannerMessage(latest, previous),
		"trend":            insight.ComputeTrendAnalysis(latest, previous),
		"trend_chips":      insight.TrendChips(latest, previous),
		"confidence":       insight.ComputeConfidence(latest),
		"escalation":       insight.GenerateEscalation(latest.Risks.RiskFlags),
		"highest_severity": insight.HighestSeverity(latest.Risks.RiskFlags),
		"risks":            risks,
	})
}

func (s *Server) renderExport(w http.ResponseWriter, r *http.Request, patient session.Patient) {
	latest, _, ok := latestAndPrevious(patient)
	if !ok {
		writeError(w, http.StatusNotFound, "patient has no analyses yet")
		return
	}
	var text string
	switch r.URL.Query().Get("format") {
	case "", "emr":
		text = insight.BuildEMRExportText(patient.Name, patient.Age, latest)
	case "caregiver":
		text = insight.BuildExportText(patient.Name, patient.Age, latest)
	default:
		writeError(w, http.StatusBadRequest, "unknown export format")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) renderReport(w http.ResponseWriter, patient session.Patient) {
	latest, previous, ok := latestAndPrevious(patient)
	if !ok {
		writeError(w, http.StatusNotFound, "patient has no analyses yet")
		return
	}
	md := insight.BuildReportMarkdown(patient.Name, patient.Age, latest, previous)
	html, err := report.RenderHTML(md)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderReportPDF(w http.ResponseWriter, r *http.Request, patient session.Patient) {
	if s.cfg.PDF == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf rendering is not configured")
		return
	}
	latest, previous, ok := latestAndPrevious(patient)
	if !ok {
		writeError(w, http.StatusNotFound, "patient has no analyses yet")
		return
	}
	md := insight.BuildReportMarkdown(patient.Name, patient.Age, latest, previous)
	pdf, err := s.cfg.PDF.Render(r.Context(), md)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(pdf)
}
