package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
	queuepublisher "github.com/iliyamo/property-rental/internal/service"
)

// ContractHandler bundles dependencies for rental-contract endpoints.
type ContractHandler struct {
	Contracts  *repository.ContractRepo
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
	Policy     *policy.Policy
}

func NewContractHandler(c *repository.ContractRepo, p *repository.PropertyRepo, t *repository.TenantRepo, pol *policy.Policy) *ContractHandler {
	if c == nil || p == nil || t == nil || pol == nil {
		panic("nil dependency passed to NewContractHandler")
	}
	return &ContractHandler{Contracts: c, Properties: p, Tenants: t, Policy: pol}
}

type createContractReq struct {
	PropertyID      uint64  `json:"property_id" validate:"required"`
	TenantID        uint64  `json:"tenant_id" validate:"required"`
	StartDate       string  `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate         string  `json:"end_date" validate:"required"`
	MonthlyRent     float64 `json:"monthly_rent" validate:"required,gt=0"`
	SecurityDeposit float64 `json:"security_deposit" validate:"min=0"`
	PaymentDueDay   int     `json:"payment_due_day" validate:"min=0,max=28"`
	ContractTerms   *string `json:"contract_terms"`
}

type updateContractReq struct {
	EndDate         *string  `json:"end_date"`
	MonthlyRent     *float64 `json:"monthly_rent"`
	SecurityDeposit *float64 `json:"security_deposit"`
	IsActive        *bool    `json:"is_active"`
	PaymentDueDay   *int     `json:"payment_due_day"`
	ContractTerms   *string  `json:"contract_terms"`
	SignedByOwner   *bool    `json:"signed_by_owner"`
	SignedByTenant  *bool    `json:"signed_by_tenant"`
	ContractFileURL *string  `json:"contract_file_url"`
}

// Create opens a contract between one of the caller's properties and a
// registered tenant. Existence is verified before relationship, so a
// missing property or tenant reads 404 while a foreign property reads
// 403. The insert and the availability flip commit in one transaction.
func (h *ContractHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if !start.Before(end) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_date must be before end_date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prop, err := h.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if prop.OwnerID != u.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your property"})
	}
	if !prop.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "property not available"})
	}
	if _, err := h.Tenants.GetByID(ctx, req.TenantID); err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ct := &repository.RentalContract{
		PropertyID:      req.PropertyID,
		TenantID:        req.TenantID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		IsActive:        true,
		PaymentDueDay:   req.PaymentDueDay,
		ContractTerms:   req.ContractTerms,
	}
	if ct.PaymentDueDay == 0 {
		ct.PaymentDueDay = 1
	}

	if err := h.Contracts.Create(ctx, ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create contract failed"})
	}

	// Fire-and-forget event publish; the contract is committed either way.
	ev := queue.ContractCreatedEvent{
		ContractID:    ct.ID,
		PropertyID:    prop.ID,
		PropertyTitle: prop.Title,
		TenantID:      ct.TenantID,
		OwnerID:       prop.OwnerID,
		StartDate:     ct.StartDate.Format(dateLayout),
		EndDate:       ct.EndDate.Format(dateLayout),
		MonthlyRent:   ct.MonthlyRent,
		CreatedAt:     time.Now().UTC(),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = queuepublisher.PublishContractCreated(pctx, ev)
	}()

	return c.JSON(http.StatusCreated, ct)
}

// List returns the contracts visible to the caller. Owners see contracts
// across their properties; pure tenants see their own. The owner scope
// wins for dual-role users.
func (h *ContractHandler) List(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	scope, err := h.Policy.ContractsScope(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var cts []*repository.RentalContract
	switch scope.Kind {
	case policy.ScopeOwner:
		cts, err = h.Contracts.ListByOwner(ctx, u.ID, skip, limit)
	case policy.ScopeTenant:
		cts, err = h.Contracts.ListByTenant(ctx, scope.TenantID, skip, limit)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if cts == nil {
		cts = []*repository.RentalContract{}
	}
	return c.JSON(http.StatusOK, cts)
}

// Expiring lists the caller's active contracts ending within the next
// `days` days (default 30). Owner-only.
func (h *ContractHandler) Expiring(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pagination(c)
	days := 30
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cts, err := h.Contracts.ListExpiringByOwner(ctx, u.ID, days, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if cts == nil {
		cts = []*repository.RentalContract{}
	}
	return c.JSON(http.StatusOK, cts)
}

// loadAuthorized fetches the contract and applies the given policy
// check, translating the errors to HTTP responses. The returned bool
// reports whether the request may proceed.
func (h *ContractHandler) loadAuthorized(c echo.Context, ctx context.Context,
	check func(context.Context, repository.User, *repository.RentalContract) error) (*repository.RentalContract, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return nil, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return nil, false
	}

	ct, err := h.Contracts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrContractNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return nil, false
	}
	if err := check(ctx, u, ct); err != nil {
		if err == repository.ErrForbidden {
			_ = c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return nil, false
	}
	return ct, true
}

// Get returns a contract readable by its property owner or its tenant.
func (h *ContractHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.loadAuthorized(c, ctx, h.Policy.AuthorizeContractRead)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, ct)
}

// Update merges partial input into the contract. Owner-only. Property,
// tenant and start date are immutable after creation.
func (h *ContractHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.loadAuthorized(c, ctx, h.Policy.AuthorizeContractManage)
	if !ok {
		return nil
	}
	var req updateContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_date must be YYYY-MM-DD"})
		}
		if !ct.StartDate.Before(end) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_date must be after start_date"})
		}
		ct.EndDate = end
	}
	if req.MonthlyRent != nil {
		if *req.MonthlyRent <= 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "monthly_rent must be positive"})
		}
		ct.MonthlyRent = *req.MonthlyRent
	}
	if req.SecurityDeposit != nil {
		ct.SecurityDeposit = *req.SecurityDeposit
	}
	if req.IsActive != nil {
		ct.IsActive = *req.IsActive
	}
	if req.PaymentDueDay != nil {
		if *req.PaymentDueDay < 1 || *req.PaymentDueDay > 28 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "payment_due_day must be 1..28"})
		}
		ct.PaymentDueDay = *req.PaymentDueDay
	}
	if req.ContractTerms != nil {
		ct.ContractTerms = req.ContractTerms
	}
	if req.SignedByOwner != nil {
		ct.SignedByOwner = *req.SignedByOwner
	}
	if req.SignedByTenant != nil {
		ct.SignedByTenant = *req.SignedByTenant
	}
	if req.ContractFileURL != nil {
		ct.ContractFileURL = req.ContractFileURL
	}

	if err := h.Contracts.Update(ctx, ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, ct)
}
