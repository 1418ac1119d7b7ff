package handlers

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authSvc services.AuthService
}

func NewAuthHandlers(authSvc services.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}

	result, err := h.authSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if common.CodeOf(err) == common.CodeInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type logoutRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}
	if req.SessionID == uuid.Nil {
		return common.SendValidationError(c, "session_id", "session_id is required")
	}

	if err := h.authSvc.Logout(c.Request().Context(), req.SessionID); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
