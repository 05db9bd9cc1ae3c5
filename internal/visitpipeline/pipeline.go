package visitpipeline

import (
	"context"
	"encoding/json"
	"strings"
)

const (
	stageTemperature   = 0.2
	cleanMaxTokens     = 1500
	structureMaxTokens = 1000
	analyzeMaxTokens   = 800
)

// Pipeline transforms a raw transcript into a PipelineResult through three
// sequential gateway-backed stages. It holds no state beyond the gateway.
type Pipeline struct {
	gateway Gateway
}

func NewPipeline(gateway Gateway) *Pipeline {
	return &Pipeline{gateway: gateway}
}

// Analyze runs clean -> structure -> analyze strictly sequentially. Any
// stage failure is wrapped in a PipelineError naming the stage. A failed
// analysis never yields partial data.
func (p *Pipeline) Analyze(ctx context.Context, transcript string) (PipelineResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return PipelineResult{}, ErrEmptyInput
	}

	cleaned, err := p.CleanTranscript(ctx, transcript)
	if err != nil {
		return PipelineResult{}, &PipelineError{Step: StepClean, Err: err}
	}
	structured, err := p.StructureVisit(ctx, cleaned)
	if err != nil {
		return PipelineResult{}, &PipelineError{Step: StepStructure, Err: err}
	}
	risks, err := p.AnalyzeRisks(ctx, structured)
	if err != nil {
		return PipelineResult{}, &PipelineError{Step: StepAnalyze, Err: err}
	}

	return PipelineResult{
		CleanedTranscript: cleaned,
		StructuredData:    structured,
		Risks:             risks,
	}, nil
}

// CleanTranscript is stage 1: normalize the raw transcript text.
func (p *Pipeline) CleanTranscript(ctx context.Context, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyInput
	}
	out, err := p.gateway.Complete(ctx, CompletionRequest{
		System:      cleanPrompt,
		User:        text,
		MaxTokens:   cleanMaxTokens,
		Temperature: stageTemperature,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &EmptyCompletionError{Step: StepClean}
	}
	return out, nil
}

// StructureVisit is stage 2: extract structured visit data from the cleaned
// transcript. Malformed model output degrades to the empty default rather
// than failing.
func (p *Pipeline) StructureVisit(ctx context.Context, cleaned string) (StructuredVisitData, error) {
	raw, err := p.gateway.Complete(ctx, CompletionRequest{
		System:       structurePrompt,
		User:         cleaned,
		JSONResponse: true,
		MaxTokens:    structureMaxTokens,
		Temperature:  stageTemperature,
	})
	if err != nil {
		return StructuredVisitData{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return StructuredVisitData{}, &EmptyCompletionError{Step: StepStructure}
	}
	return DecodeStructuredVisitData(raw), nil
}

// AnalyzeRisks is stage 3: derive risk flags from the structured data.
func (p *Pipeline) AnalyzeRisks(ctx context.Context, data StructuredVisitData) (RiskAnalysis, error) {
	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return RiskAnalysis{}, err
	}
	raw, err := p.gateway.Complete(ctx, CompletionRequest{
		System:       riskPrompt,
		User:         string(blob),
		JSONResponse: true,
		MaxTokens:    analyzeMaxTokens,
		Temperature:  stageTemperature,
	})
	if err != nil {
		return RiskAnalysis{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return RiskAnalysis{}, &EmptyCompletionError{Step: StepAnalyze}
	}
	return DecodeRiskAnalysis(raw), nil
}
