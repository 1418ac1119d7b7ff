package handlers

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	deletionSvc services.TenantDeletionService
}

func NewTenantHandlers(deletionSvc services.TenantDeletionService) *TenantHandlers {
	return &TenantHandlers{deletionSvc: deletionSvc}
}

// Delete handles DELETE /companies/:id
func (h *TenantHandlers) Delete(c echo.Context) error {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid company id")
	}

	result, err := h.deletionSvc.DeleteTenant(c.Request().Context(), companyID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Analyze handles GET /companies/:id/deletion-analysis
func (h *TenantHandlers) Analyze(c echo.Context) error {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid company id")
	}

	analysis, err := h.deletionSvc.Analyze(c.Request().Context(), companyID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, analysis)
}
