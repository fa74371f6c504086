package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tendant/content-planner/pkg/planner"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini generator
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini generates content with Google's Gemini models.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ planner.AIGenerator = (*Gemini)(nil)

// NewGemini creates a Gemini client. Call Close when done.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) GenerateContent(ctx context.Context, item planner.ContentItem) (*planner.GeneratedContent, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(item)))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return ParseGenerated(text)
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", planner.ErrMalformedResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", planner.ErrMalformedResponse)
	}
	return b.String(), nil
}
