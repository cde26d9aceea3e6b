package explain

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiNarrator implements Narrator with Gemini text generation.
type GeminiNarrator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiNarrator creates a narrator for the Gemini API.
func NewGeminiNarrator(ctx context.Context, apiKey, model string, temperature float32, maxTokens int) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini narrator: api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(temperature)}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	return &GeminiNarrator{client: client, model: model, config: cfg}, nil
}

// GenerateText implements Narrator.
func (g *GeminiNarrator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
