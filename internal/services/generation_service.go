package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"musegen/internal/models/db_models"
	"musegen/internal/models/request_models"
	"musegen/internal/repositories"
	"musegen/pkg/utils"
)

const defaultPollInterval = 10 * time.Second

type GenerationServiceInterface interface {
	Generate(ctx context.Context, accountID uuid.UUID, feature db_models.FeatureType, prompt string, cfg request_models.GenerationConfig) (*db_models.GenerationRecord, error)
	ListRecent(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.GenerationRecord, error)
}

// featureMode maps a feature onto its provider capability and completion mode,
// replacing per-handler image/video branching.
type featureMode struct {
	capability utils.GenerationCapability
	polled     bool
}

type GenerationService struct {
	entitlements   EntitlementServiceInterface
	generationRepo repositories.GenerationRepository
	features       map[db_models.FeatureType]featureMode
	pollInterval   time.Duration
}

func NewGenerationService(
	entitlements EntitlementServiceInterface,
	generationRepo repositories.GenerationRepository,
	imageCapability utils.GenerationCapability,
	videoCapability utils.GenerationCapability,
) GenerationServiceInterface {
	return &GenerationService{
		entitlements:   entitlements,
		generationRepo: generationRepo,
		features: map[db_models.FeatureType]featureMode{
			db_models.FeatureImage: {capability: imageCapability, polled: false},
			db_models.FeatureVideo: {capability: videoCapability, polled: true},
		},
		pollInterval: defaultPollInterval,
	}
}

func (g *GenerationService) Generate(ctx context.Context, accountID uuid.UUID, feature db_models.FeatureType, prompt string, cfg request_models.GenerationConfig) (*db_models.GenerationRecord, error) {
	// Prompt validation happens before authorization so a bad request never
	// charges quota.
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, utils.ErrEmptyPrompt
	}

	mode, ok := g.features[feature]
	if !ok {
		return nil, utils.ErrUnknownFeature
	}

	req, err := buildProviderRequest(feature, prompt, cfg)
	if err != nil {
		return nil, err
	}

	if _, err := g.entitlements.AuthorizeAndConsume(ctx, accountID, feature); err != nil {
		return nil, err
	}

	// Exactly one dispatch per request. From here on, quota stays charged
	// whatever the provider does.
	result, err := mode.capability.Complete(ctx, req)
	if err != nil {
		log.Printf("generation: dispatch failed account=%s feature=%s: %v", accountID, feature, err)
		return nil, utils.ErrGenerationProvider
	}

	if mode.polled && !result.Done {
		result, err = g.pollUntilDone(ctx, mode.capability, result.OperationID)
		if err != nil {
			return nil, err
		}
	}

	record := &db_models.GenerationRecord{
		AccountID: accountID,
		Feature:   feature,
		Prompt:    prompt,
		OutputURL: result.ArtifactURL,
	}

	// A result that finished before cancellation arrived still wins; persist
	// it even when the caller has already gone away.
	if err := g.generationRepo.Insert(context.WithoutCancel(ctx), record); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return record, nil
}

// pollUntilDone waits a fixed interval between status queries until the
// operation reports done or fails. No retry on provider errors, and no
// internal attempt ceiling: the caller's context is the only bound, and
// cancellation stops the loop before the next query.
func (g *GenerationService) pollUntilDone(ctx context.Context, capability utils.GenerationCapability, operationID string) (*utils.GenerationResult, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		result, err := capability.PollOperation(ctx, operationID)
		if err != nil {
			log.Printf("generation: poll failed operation=%s: %v", operationID, err)
			return nil, utils.ErrGenerationProvider
		}
		if result.Done {
			return result, nil
		}
	}
}

func buildProviderRequest(feature db_models.FeatureType, prompt string, cfg request_models.GenerationConfig) (utils.GenerationRequest, error) {
	req := utils.GenerationRequest{
		Prompt:          prompt,
		AspectRatio:     cfg.AspectRatio,
		Resolution:      cfg.Resolution,
		DurationSeconds: cfg.DurationSeconds,
	}

	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}
	switch feature {
	case db_models.FeatureImage:
		if req.Resolution == "" {
			req.Resolution = "1024x1024"
		}
	case db_models.FeatureVideo:
		if req.DurationSeconds == 0 {
			req.DurationSeconds = 8
		}
		if req.DurationSeconds < 0 || req.DurationSeconds > 60 {
			return utils.GenerationRequest{}, utils.ErrInvalidConfig
		}
	}

	return req, nil
}

func (g *GenerationService) ListRecent(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.GenerationRecord, error) {
	records, err := g.generationRepo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return records, nil
}
