package response_models

type GenerationResponse struct {
	ID        string `json:"id"`
	Feature   string `json:"feature"`
	Prompt    string `json:"prompt"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at"`
}

type EnhancePromptResponse struct {
	Prompt string `json:"prompt"`
}
