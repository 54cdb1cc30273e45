package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"musegen/internal/models/db_models"
	"musegen/internal/models/request_models"
	"musegen/internal/models/response_models"
	"musegen/internal/services"
	"musegen/pkg/utils"
)

type GenerationController struct {
	generationService services.GenerationServiceInterface
	promptService     services.PromptServiceInterface
}

func NewGenerationController(
	generationService services.GenerationServiceInterface,
	promptService services.PromptServiceInterface,
) *GenerationController {
	return &GenerationController{
		generationService: generationService,
		promptService:     promptService,
	}
}

func accountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("account_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Generate runs one generation request end to end. Video requests block on
// this handler until the provider operation finishes or the client gives up;
// client disconnects cancel the poll loop through the request context.
func (g *GenerationController) Generate(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request request_models.GenerationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	record, err := g.generationService.Generate(
		c.Request.Context(),
		accountID,
		db_models.FeatureType(request.FeatureType),
		request.Prompt,
		request.Config,
	)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.GenerationResponse{
		ID:        record.ID.String(),
		Feature:   string(record.Feature),
		Prompt:    record.Prompt,
		URL:       record.OutputURL,
		CreatedAt: record.CreatedAt,
	}, "Generation complete")
}

func (g *GenerationController) ListRecent(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	records, err := g.generationService.ListRecent(c.Request.Context(), accountID, 20)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.GenerationResponse, 0, len(records))
	for _, record := range records {
		out = append(out, response_models.GenerationResponse{
			ID:        record.ID.String(),
			Feature:   string(record.Feature),
			Prompt:    record.Prompt,
			URL:       record.OutputURL,
			CreatedAt: record.CreatedAt,
		})
	}

	utils.RespondSuccess(c, out, "")
}

func (g *GenerationController) EnhancePrompt(c *gin.Context) {
	if _, ok := accountIDFromContext(c); !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request request_models.EnhancePromptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	enhanced, err := g.promptService.Enhance(c.Request.Context(), request.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.EnhancePromptResponse{Prompt: enhanced}, "")
}
