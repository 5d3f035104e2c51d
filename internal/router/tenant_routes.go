package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
)

// RegisterTenants registers tenant-profile endpoints under /v1.
// Registration and the by-id read only need an authenticated active
// user (registration is what grants the tenant role); the /me endpoints
// require the role itself.
func RegisterTenants(e *echo.Echo, t *handler.TenantHandler, users *repository.UserRepo, jwtSecret string) {
	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
	)
	auth.POST("/tenants/register", t.Register)
	auth.GET("/tenants/:id", t.Get)

	tenant := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
		middleware.RequireTenantRole(),
	)
	tenant.GET("/tenants/me", t.Me)
	tenant.PUT("/tenants/me", t.UpdateMe)
}
