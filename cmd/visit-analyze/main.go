// visit-analyze runs the three-stage visit analysis once over a transcript
// from a file or stdin and prints the result as JSON, an EMR export, or a
// caregiver export. Useful for batch processing and for debugging prompts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carebridge/visit-insights/internal/insight"
	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

func main() {
	inFlag := flag.String("in", "-", "transcript file (- for stdin)")
	formatFlag := flag.String("format", "json", "output format: json, emr, or caregiver")
	nameFlag := flag.String("patient", "Unnamed Patient", "patient name for export formats")
	ageFlag := flag.Int("age", 0, "patient age for export formats")
	providerFlag := flag.String("provider", "openai", "llm provider: openai or anthropic")
	flag.Parse()

	transcript, err := readTranscript(*inFlag)
	if err != nil {
		log.Fatal(err)
	}

	var gateway pipeline.Gateway
	if *providerFlag == "anthropic" {
		gateway, err = pipeline.NewAnthropicGatewayFromEnv()
	} else {
		gateway, err = pipeline.NewOpenAIGatewayFromEnv()
	}
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := pipeline.NewPipeline(gateway).Analyze(ctx, transcript)
	if err != nil {
		log.Fatalf("analysis failed at step %s: %v", pipeline.StepFromError(err), err)
	}

	switch *formatFlag {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal(err)
		}
	case "emr":
		fmt.Print(insight.BuildEMRExportText(*nameFlag, *ageFlag, result))
	case "caregiver":
		fmt.Print(insight.BuildExportText(*nameFlag, *ageFlag, result))
	default:
		log.Fatalf("unknown format %q", *formatFlag)
	}
}

func readTranscript(path string) (string, error) {
	if path == "-" {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(blob), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}
