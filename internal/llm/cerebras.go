package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const cerebrasBaseURL = "https://api.cerebras.ai/v1/"

// CerebrasClient talks to the OpenAI-compatible Cerebras chat completions
// endpoint.
type CerebrasClient struct {
	client openai.Client
	model  string
}

func NewCerebrasClient(apiKey, model string, opts ...option.RequestOption) *CerebrasClient {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cerebrasBaseURL),
	}, opts...)
	return &CerebrasClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (c *CerebrasClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("cerebras request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("cerebras API returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
