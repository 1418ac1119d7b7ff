package handlers

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InvitationHandlers struct {
	invitationSvc services.InvitationService
}

func NewInvitationHandlers(invitationSvc services.InvitationService) *InvitationHandlers {
	return &InvitationHandlers{invitationSvc: invitationSvc}
}

type issueInvitationRequest struct {
	Email   string      `json:"email"`
	RoleIDs []uuid.UUID `json:"role_ids"`
}

// Issue handles POST /companies/:id/invitations
func (h *InvitationHandlers) Issue(c echo.Context) error {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid company id")
	}

	var req issueInvitationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}

	issued, err := h.invitationSvc.Issue(c.Request().Context(), &services.IssueInvitationRequest{
		CompanyID: companyID,
		Email:     req.Email,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, issued)
}

// ListPending handles GET /companies/:id/invitations
func (h *InvitationHandlers) ListPending(c echo.Context) error {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid company id")
	}

	invitations, err := h.invitationSvc.ListPending(c.Request().Context(), companyID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invitations)
}

type acceptInvitationRequest struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
}

// Accept handles POST /invitations/accept
func (h *InvitationHandlers) Accept(c echo.Context) error {
	var req acceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}
	if req.Token == "" {
		return common.SendValidationError(c, "token", "token is required")
	}

	inv, err := h.invitationSvc.Accept(c.Request().Context(), req.Token, req.UserID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

type cancelInvitationRequest struct {
	Token string `json:"token"`
}

// Cancel handles POST /invitations/cancel
func (h *InvitationHandlers) Cancel(c echo.Context) error {
	var req cancelInvitationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request body")
	}
	if req.Token == "" {
		return common.SendValidationError(c, "token", "token is required")
	}

	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.invitationSvc.Cancel(c.Request().Context(), req.Token, userID); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
