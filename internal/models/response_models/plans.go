package response_models

type PlanResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	PriceMinor   int64  `json:"price_minor"`
	Currency     string `json:"currency"`
	ImagesPerDay int    `json:"images_per_day"`
	VideosPerDay int    `json:"videos_per_day"`
}
