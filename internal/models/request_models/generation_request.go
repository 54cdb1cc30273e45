package request_models

type GenerationConfig struct {
	AspectRatio     string `json:"aspect_ratio"`
	Resolution      string `json:"resolution"`
	DurationSeconds int    `json:"duration_seconds"`
}

type GenerationRequest struct {
	FeatureType string           `json:"feature_type" binding:"required"`
	Prompt      string           `json:"prompt"`
	Config      GenerationConfig `json:"config"`
}

type EnhancePromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
