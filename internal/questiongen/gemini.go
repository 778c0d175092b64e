package questiongen

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// GeminiGenerator generates questions through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateQuestions(ctx context.Context, params Params) ([]string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(params)), nil)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoQuestions
	}
	text, err := result.Text()
	if err != nil {
		return nil, err
	}
	return ParseQuestions(text)
}
