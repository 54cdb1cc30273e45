package services

import (
	"context"
	"log"
	"strings"

	"musegen/pkg/utils"
)

type PromptServiceInterface interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

// PromptService polishes prompts before generation. Enhancement is free and
// never touches the usage ledger.
type PromptService struct {
	enhancer utils.PromptEnhancerInterface
}

func NewPromptService(enhancer utils.PromptEnhancerInterface) PromptServiceInterface {
	return &PromptService{enhancer: enhancer}
}

func (p *PromptService) Enhance(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", utils.ErrEmptyPrompt
	}

	enhanced, err := p.enhancer.Enhance(ctx, prompt)
	if err != nil {
		log.Printf("prompt: enhancement failed, returning original: %v", err)
		return prompt, nil
	}
	if enhanced == "" {
		return prompt, nil
	}
	return enhanced, nil
}
