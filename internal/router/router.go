package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations (register, login, refresh, logout) live under /v1/auth;
// the profile endpoints live under /v1 behind the JWT and active-user
// middleware. Logout only needs the refresh token in the body, so it is
// not JWT-protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users *repository.UserRepo, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
}
