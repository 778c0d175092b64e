package assessment

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"interviewai/interview/internal/models"
)

// GeminiAssessor scores transcripts through the Gemini API.
type GeminiAssessor struct {
	client *genai.Client
	model  string
}

func NewGeminiAssessor(ctx context.Context, apiKey, model string) (*GeminiAssessor, error) {
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
	return &GeminiAssessor{client: client, model: model}, nil
}

func (a *GeminiAssessor) Assess(ctx context.Context, role string, transcript []models.Turn) (*Report, error) {
	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(Prompt(role, transcript)), nil)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrUnparseableReport
	}
	text, err := result.Text()
	if err != nil {
		return nil, err
	}
	return ParseReport(text)
}
