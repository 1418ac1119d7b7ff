package middleware

import (
	"net/http"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	permissions services.PermissionService
}

func NewRBACMiddleware(permissions services.PermissionService) *RBACMiddleware {
	return &RBACMiddleware{
		permissions: permissions,
	}
}

// RequirePermission denies the request unless the caller's effective
// permission set contains the given code. An empty set is a normal deny.
func (m *RBACMiddleware) RequirePermission(code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			hasPermission, err := m.permissions.UserHasPermission(ctx, userID, code)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking permission")
			}
			if !hasPermission {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
