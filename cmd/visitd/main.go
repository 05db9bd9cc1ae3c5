package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebridge/visit-insights/internal/httpapi"
	"github.com/carebridge/visit-insights/internal/report"
	"github.com/carebridge/visit-insights/internal/session"
	"github.com/carebridge/visit-insights/internal/transcribe"
	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func main() {
	addrFlag := flag.String("addr", ":8080", "listen address")
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides DB_PATH env var; empty = in-memory session)")
	pdfFlag := flag.Bool("pdf", true, "enable PDF report rendering (requires a headless Chromium)")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "visitd").Logger()

	addr := *addrFlag
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	// Resolve DB path: --db flag > DB_PATH env > empty (in-memory).
	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	var store session.Store
	if dbPath != "" {
		ss, err := session.NewSQLiteStore(dbPath)
		if err != nil {
			logger.Fatal().Err(err).Str("db", dbPath).Msg("open sqlite store")
		}
		defer ss.Close()
		store = ss
		logger.Info().Str("db", dbPath).Msg("using sqlite session store")
	} else {
		store = session.NewMemoryStore()
		logger.Info().Msg("using in-memory session store")
	}

	var pl *pipeline.Pipeline
	gateway, err := newGatewayFromEnv()
	switch {
	case err == nil:
		pl = pipeline.NewPipeline(gateway)
	case errors.Is(err, pipeline.ErrNotConfigured):
		logger.Warn().Err(err).Msg("analysis disabled")
	default:
		logger.Fatal().Err(err).Msg("configure llm gateway")
	}

	var transcriber transcribe.Transcriber
	if wc, err := transcribe.NewWhisperClientFromEnv(); err == nil {
		transcriber = wc
	} else {
		logger.Warn().Err(err).Msg("transcription disabled")
	}

	var pdf httpapi.PDFRenderer
	if *pdfFlag {
		pdf = report.NewChromiumPDFRenderer()
	}

	handler := httpapi.NewServer(httpapi.Config{
		Store:       store,
		Pipeline:    pl,
		Transcriber: transcriber,
		PDF:         pdf,
		Logger:      logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("visitd listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serve")
	}
}

// newGatewayFromEnv picks the LLM backend. OpenAI is the default; setting
// LLM_PROVIDER=anthropic switches to the Anthropic messages API.
func newGatewayFromEnv() (pipeline.Gateway, error) {
	if os.Getenv("LLM_PROVIDER") == "anthropic" {
		return pipeline.NewAnthropicGatewayFromEnv()
	}
	return pipeline.NewOpenAIGatewayFromEnv()
}
