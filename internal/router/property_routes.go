package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
)

// RegisterProperties registers the property endpoints under /v1. The
// browse/search listing and the single-listing read are public so
// guests can shop for a rental; creation and the my-properties listing
// demand the owner role. Update and delete apply ownership checks in
// the handler so a missing id still reads 404.
func RegisterProperties(e *echo.Echo, p *handler.PropertyHandler, users *repository.UserRepo, jwtSecret string) {
	e.GET("/v1/properties", p.List)
	e.GET("/v1/properties/:id", p.Get)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
	)
	auth.PUT("/properties/:id", p.Update)
	auth.DELETE("/properties/:id", p.Delete)

	owner := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
		middleware.RequireOwnerRole(),
	)
	owner.POST("/properties", p.Create)
	owner.GET("/properties/my-properties", p.MyProperties)
}
