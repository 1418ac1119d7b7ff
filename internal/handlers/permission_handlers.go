package handlers

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PermissionHandlers struct {
	permissionSvc services.PermissionService
}

func NewPermissionHandlers(permissionSvc services.PermissionService) *PermissionHandlers {
	return &PermissionHandlers{permissionSvc: permissionSvc}
}

// Effective handles GET /users/:id/permissions
func (h *PermissionHandlers) Effective(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid user id")
	}

	codes, err := h.permissionSvc.Resolve(c.Request().Context(), userID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	if codes == nil {
		codes = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"user_id": userID, "permissions": codes})
}

type setOverrideRequest struct {
	PermissionID uuid.UUID `json:"permission_id"`
	IsGranted    bool      `json:"is_granted"`
}

// SetOverride handles PUT /users/:id/permissions/override
func (h *PermissionHandlers) SetOverride(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid user id")
	}

	var req setOverrideRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}

	if err := h.permissionSvc.SetOverride(c.Request().Context(), userID, req.PermissionID, req.IsGranted); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
