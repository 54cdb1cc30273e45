package services

import (
	"musegen/internal/models/response_models"
	"musegen/internal/plans"
)

type PlanServiceInterface interface {
	GetAllPlans() []response_models.PlanResponse
}

type PlanService struct{}

func NewPlanService() PlanServiceInterface {
	return &PlanService{}
}

func (p *PlanService) GetAllPlans() []response_models.PlanResponse {
	catalogue := plans.All()
	out := make([]response_models.PlanResponse, 0, len(catalogue))
	for _, plan := range catalogue {
		out = append(out, response_models.PlanResponse{
			Code:         plan.Code,
			Name:         plan.Name,
			PriceMinor:   plan.PriceMinor,
			Currency:     plan.Currency,
			ImagesPerDay: plan.Limits.ImagesPerDay,
			VideosPerDay: plan.Limits.VideosPerDay,
		})
	}
	return out
}
