package controllers

import (
	"github.com/gin-gonic/gin"

	"musegen/internal/services"
	"musegen/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{planService: planService}
}

func (p *PlanController) ListAllPlans(c *gin.Context) {
	utils.RespondSuccess(c, p.planService.GetAllPlans(), "")
}
