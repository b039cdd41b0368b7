package ai

import (
	"context"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	reply  string
	err    error
	calls  int
	model  string
	config *genai.GenerateContentConfig
	parts  []*genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	for _, c := range contents {
		f.parts = append(f.parts, c.Parts...)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}},
		}},
	}, nil
}
