package llm

import (
	"context"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

const defaultVertexModel = "gemini-1.5-flash"

type vertexModel struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func newVertexModel(ctx context.Context, projectID, location, name string) (*vertexModel, error) {
	client, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	if name == "" {
		name = defaultVertexModel
	}
	return &vertexModel{client: client, model: client.GenerativeModel(name)}, nil
}

func (v *vertexModel) generate(ctx context.Context, prompt string) (string, error) {
	var sb strings.Builder

	it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("vertex stream: %w", err)
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("vertex response contained no text")
	}
	return sb.String(), nil
}

func (v *vertexModel) close() error { return v.client.Close() }
