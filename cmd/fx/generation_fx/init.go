package generation_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"musegen/internal/repositories"
	"musegen/internal/services"
	"musegen/pkg/utils"
)

type capabilities struct {
	fx.Out

	Image utils.GenerationCapability `name:"image_capability"`
	Video utils.GenerationCapability `name:"video_capability"`
}

type generationDeps struct {
	fx.In

	Entitlements services.EntitlementServiceInterface
	Repo         repositories.GenerationRepository
	Image        utils.GenerationCapability `name:"image_capability"`
	Video        utils.GenerationCapability `name:"video_capability"`
}

var Module = fx.Provide(
	provideGenerationRepo,
	provideCapabilities,
	providePromptService,
	provideGenerationService,
)

func provideGenerationRepo(db *gorm.DB) repositories.GenerationRepository {
	return repositories.NewGenerationRepository(db)
}

func provideCapabilities() capabilities {
	apiKey := os.Getenv("GEMINI_API_KEY")

	image, err := utils.NewGeminiImageClient(apiKey, os.Getenv("GEMINI_IMAGE_MODEL"))
	if err != nil {
		log.Fatalf("Failed to init image capability: %v", err)
	}
	video := utils.NewVeoVideoClient(apiKey, os.Getenv("VEO_VIDEO_MODEL"))

	return capabilities{Image: image, Video: video}
}

func providePromptService() services.PromptServiceInterface {
	enhancer := utils.NewPromptEnhancer(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_PROMPT_MODEL"))
	return services.NewPromptService(enhancer)
}

func provideGenerationService(deps generationDeps) services.GenerationServiceInterface {
	return services.NewGenerationService(deps.Entitlements, deps.Repo, deps.Image, deps.Video)
}
