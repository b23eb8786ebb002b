package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the session carries the expected role. It must run after JWT.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value, _ := c.Get(ContextKeyRole).(string)
			switch {
			case value == "":
				return forbidden(c, "missing role")
			case value != role:
				return forbidden(c, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// OperatorFromContext returns the authenticated operator's email, if any.
func OperatorFromContext(c echo.Context) string {
	email, _ := c.Get(ContextKeyOperator).(string)
	return email
}

func forbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, map[string]string{"status": "error", "message": message})
}
