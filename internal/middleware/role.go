package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles are boolean capability flags on the user record, not an enum: a
// user may hold both at once. These middlewares gate routes that demand
// a specific capability; relationship checks (does the owner own *this*
// property) stay in the policy layer. Both assume ActiveUser ran first.

// RequireOwnerRole aborts with 403 unless the current user carries the
// property-owner flag.
func RequireOwnerRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !u.IsPropertyOwner {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "property owner role required"})
			}
			return next(c)
		}
	}
}

// RequireTenantRole aborts with 403 unless the current user carries the
// tenant flag.
func RequireTenantRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !u.IsTenant {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant role required"})
			}
			return next(c)
		}
	}
}
