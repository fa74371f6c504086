package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tendant/content-planner/pkg/planner"
)

// OpenAIConfig configures the OpenAI generator
type OpenAIConfig struct {
	APIKey  string
	Model   string        // default gpt-4o-mini
	Timeout time.Duration // per request, default 60s
	BaseURL string        // optional, for compatible endpoints
}

// OpenAI generates content with OpenAI chat completions in JSON mode.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ planner.AIGenerator = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI generator
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) GenerateContent(ctx context.Context, item planner.ContentItem) (*planner.GeneratedContent, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(item)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", planner.ErrMalformedResponse)
	}
	return ParseGenerated(resp.Choices[0].Message.Content)
}
