package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// requireRole gates an endpoint on the X-Role header. The gateway
// authenticates the caller and forwards the role; this service trusts it.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Role") != role {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Code:    http.StatusForbidden,
					Message: "Insufficient role",
				})
			}
			return next(c)
		}
	}
}
