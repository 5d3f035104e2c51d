package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
)

// RegisterContracts registers the contract endpoints and their child
// resources (payments, maintenance) under /v1. Role middleware gates
// routes with a fixed role requirement; per-record relationship checks
// (is this my contract) run in the policy layer inside the handlers.
func RegisterContracts(
	e *echo.Echo,
	ct *handler.ContractHandler,
	pay *handler.PaymentHandler,
	mnt *handler.MaintenanceHandler,
	users *repository.UserRepo,
	jwtSecret string,
) {
	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
	)

	// ---- Contracts ----
	auth.GET("/contracts", ct.List)
	auth.GET("/contracts/:id", ct.Get)

	// ---- Payments ----
	// Either party may record and read payments on their contract.
	auth.POST("/contracts/:id/payments", pay.Create)
	auth.GET("/contracts/:id/payments", pay.List)

	// ---- Maintenance ----
	auth.GET("/contracts/:id/maintenance", mnt.List)

	owner := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
		middleware.RequireOwnerRole(),
	)
	owner.POST("/contracts", ct.Create)
	owner.GET("/contracts/expiring", ct.Expiring)
	owner.PUT("/contracts/:id", ct.Update)
	owner.GET("/payments/late", pay.Late)
	owner.PUT("/contracts/maintenance/:id", mnt.Update)

	tenant := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ActiveUser(users),
		middleware.RequireTenantRole(),
	)
	tenant.POST("/contracts/:id/maintenance", mnt.Create)
}
