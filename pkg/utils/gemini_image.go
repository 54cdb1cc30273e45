package utils

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiImageClient generates still images through Google's Gemini models.
// Image generation completes within a single request, so Complete always
// returns a finished artifact.
type GeminiImageClient struct {
	client *genai.Client
	model  string
}

func NewGeminiImageClient(apiKey, model string) (*GeminiImageClient, error) {
	if model == "" {
		model = "gemini-2.0-flash-exp-image-generation"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiImageClient{client: client, model: model}, nil
}

func (c *GeminiImageClient) Complete(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.7)

	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s\n\nAspect ratio: %s", prompt, req.AspectRatio)
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini returned no candidates")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			url := fmt.Sprintf("data:%s;base64,%s", blob.MIMEType,
				base64.StdEncoding.EncodeToString(blob.Data))
			return &GenerationResult{Done: true, ArtifactURL: url}, nil
		}
	}

	return nil, errors.New("gemini returned no image data")
}

// PollOperation is unreachable for a synchronous capability.
func (c *GeminiImageClient) PollOperation(ctx context.Context, operationID string) (*GenerationResult, error) {
	return nil, errors.New("image generation has no long-running operations")
}

func (c *GeminiImageClient) Close() error {
	return c.client.Close()
}
