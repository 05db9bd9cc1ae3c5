package visitpipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGateway is an interchangeable gateway backend. The Anthropic API
// has no JSON response mode, so JSONResponse is satisfied by the stage
// prompts alone and the extractor on the way back.
type AnthropicGateway struct {
	messages AnthropicMessager
	model    anthropic.Model
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

func NewAnthropicGatewayFromEnv() (*AnthropicGateway, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY missing: %w", ErrNotConfigured)
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGateway{messages: &c.Messages, model: anthropic.ModelClaudeSonnet4_20250514}, nil
}

func (g *AnthropicGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return completeWithRetry(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
			Model:       g.model,
			MaxTokens:   int64(req.MaxTokens),
			System:      []anthropic.TextBlockParam{{Text: req.System}},
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.User))},
			Temperature: anthropic.Float(float64(req.Temperature)),
		})
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, b := range resp.Content {
			if b.Type == "text" {
				sb.WriteString(b.Text)
			}
		}
		return sb.String(), nil
	})
}
