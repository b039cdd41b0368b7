// Package ai holds the two hosted-model flows: breed identification from a
// photo and instant pet care advice.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator is the subset of the genai Models service the flows need
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiGenerator connects to the Gemini API with an API key
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}
	return client.Models, nil
}
