package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const enhancerSystemPrompt = `You rewrite user prompts for an AI image and video generator.
Return a single improved prompt: keep the subject, add concrete style, lighting and
composition detail. No commentary, no quotes, prompt text only.`

type PromptEnhancerInterface interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

// PromptEnhancer polishes raw user prompts through an OpenAI chat model before
// they are sent to the generation providers.
type PromptEnhancer struct {
	client *openai.Client
	model  string
}

func NewPromptEnhancer(apiKey, model string) *PromptEnhancer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &PromptEnhancer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *PromptEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enhancerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("enhance prompt: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("enhance prompt: empty completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
