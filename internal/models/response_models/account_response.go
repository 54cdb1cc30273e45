package response_models

import "musegen/internal/plans"

type VerifyCodeResponse struct {
	Token string `json:"token"`
}

type UsageResponse struct {
	ImagesUsed int `json:"images_used"`
	VideosUsed int `json:"videos_used"`
}

type AccountResponse struct {
	ID                 string        `json:"id"`
	Email              string        `json:"email"`
	Name               string        `json:"name,omitempty"`
	PlanCode           string        `json:"plan_code"`
	SubscriptionStatus string        `json:"subscription_status"`
	Limits             plans.Limits  `json:"limits"`
	Usage              UsageResponse `json:"usage"`
}
