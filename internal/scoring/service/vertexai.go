package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// VertexGenerator implements Generator on the Vertex AI Gemini API.
type VertexGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewVertexGenerator connects to Vertex AI. Low temperature keeps scoring
// output consistent across calls.
func NewVertexGenerator(ctx context.Context, projectID, location string) (*VertexGenerator, error) {
	if projectID == "" {
		return nil, fmt.Errorf("vertex project id is required")
	}
	if location == "" {
		location = "us-central1"
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)

	return &VertexGenerator{client: client, model: model}, nil
}

func (g *VertexGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}
	return result, nil
}

func (g *VertexGenerator) Close() error {
	return g.client.Close()
}
