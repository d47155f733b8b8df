package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bodul/studycrossword/generator"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// GeminiClient wraps the Google GenAI client for VertexAI.
type GeminiClient struct {
	client     *genai.Client
	modelName  string
	maxLetters int // longest term the generator will accept
}

// NewGeminiClient creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
// maxLetters is the generator's grid side; zero means the default.
func NewGeminiClient(ctx context.Context, projectID, region, model string, maxLetters int) (*GeminiClient, error) {
	if region == "" {
		region = defaultRegion
	}
	if model == "" {
		model = defaultModel
	}
	if maxLetters <= 0 {
		maxLetters = generator.DefaultMaxSize
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		modelName:  model,
		maxLetters: maxLetters,
	}, nil
}

// Close releases resources held by the client.
func (g *GeminiClient) Close() error {
	return nil
}
