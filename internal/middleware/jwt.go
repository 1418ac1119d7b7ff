package middleware

import (
	"net/http"
	"strings"

	"taxdesk/internal/common"
	"taxdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token and stores the caller's user
// and company ids in the request context.
func JWTMiddleware(credentials services.CredentialService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := credentials.ValidateAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}
			companyID, err := uuid.Parse(claims.CompanyID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			ctx := common.SetUserIDInContext(c.Request().Context(), userID)
			ctx = common.SetCompanyIDInContext(ctx, companyID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
