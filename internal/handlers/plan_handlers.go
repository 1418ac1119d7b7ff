package handlers

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PlanHandlers struct {
	planSvc services.PlanService
}

func NewPlanHandlers(planSvc services.PlanService) *PlanHandlers {
	return &PlanHandlers{planSvc: planSvc}
}

type changePlanRequest struct {
	Level   string                     `json:"level"`
	Options services.PlanChangeOptions `json:"options"`
}

// ChangePlan handles POST /companies/:id/plan
func (h *PlanHandlers) ChangePlan(c echo.Context) error {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid company id")
	}

	var req changePlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}

	result, err := h.planSvc.ChangePlan(c.Request().Context(), companyID, req.Level, req.Options)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListLevels handles GET /plans
func (h *PlanHandlers) ListLevels(c echo.Context) error {
	levels, err := h.planSvc.AvailableLevels(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "failed to list service levels")
	}
	return c.JSON(http.StatusOK, levels)
}
