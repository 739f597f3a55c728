package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiModel struct {
	client *genai.Client
	name   string
}

func newGeminiModel(ctx context.Context, apiKey, name string) (*geminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if name == "" {
		name = defaultGeminiModel
	}
	return &geminiModel{client: client, name: name}, nil
}

func (m *geminiModel) generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 4096,
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty gemini response")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini response contained no text")
	}
	return text, nil
}

// The Gemini API client is plain HTTP; there is nothing to close.
func (m *geminiModel) close() error { return nil }
