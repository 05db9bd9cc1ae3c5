package visitpipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIGateway is the primary gateway backend. It supports the JSON
// response format requested by the structuring and risk stages.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

func NewOpenAIGatewayFromEnv() (*OpenAIGateway, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY missing: %w", ErrNotConfigured)
	}
	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGateway{client: openai.NewClient(apiKey), model: model}, nil
}

func (g *OpenAIGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return completeWithRetry(ctx, func(ctx context.Context) (string, error) {
		ccr := openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.System},
				{Role: openai.ChatMessageRoleUser, Content: req.User},
			},
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		}
		if req.JSONResponse {
			ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
		resp, err := g.client.CreateChatCompletion(ctx, ccr)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
}
