package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/repository"
)

// MaintenanceHandler bundles dependencies for maintenance-request
// endpoints. Requests are created by the contract's tenant and worked
// by the property owner.
type MaintenanceHandler struct {
	Requests  *repository.MaintenanceRepo
	Contracts *repository.ContractRepo
	Policy    *policy.Policy
}

func NewMaintenanceHandler(m *repository.MaintenanceRepo, c *repository.ContractRepo, pol *policy.Policy) *MaintenanceHandler {
	if m == nil || c == nil || pol == nil {
		panic("nil dependency passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{Requests: m, Contracts: c, Policy: pol}
}

type createMaintenanceReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Priority    *string `json:"priority"`
}

type updateMaintenanceReq struct {
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	CompletionDate *string  `json:"completion_date"` // YYYY-MM-DD
	Cost           *float64 `json:"cost"`
	Notes          *string  `json:"notes"`
}

func (h *MaintenanceHandler) contractForChild(c echo.Context, ctx context.Context,
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

// Create files a maintenance request against a contract. Only the
// contract's tenant may file one. New requests start pending with
// medium priority unless a valid priority is supplied.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.contractForChild(c, ctx, h.Policy.AuthorizeMaintenanceCreate)
	if !ok {
		return nil
	}
	var req createMaintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m := &repository.MaintenanceRequest{
		ContractID:  ct.ID,
		Title:       req.Title,
		Description: req.Description,
		RequestDate: time.Now().UTC(),
		Status:      repository.StatusPending,
		Priority:    repository.PriorityMedium,
	}
	if req.Priority != nil {
		if !repository.ValidPriority(*req.Priority) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid priority"})
		}
		m.Priority = *req.Priority
	}

	if err := h.Requests.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// List returns a contract's maintenance requests, visible to either
// party.
func (h *MaintenanceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.contractForChild(c, ctx, h.Policy.AuthorizeContractRead)
	if !ok {
		return nil
	}
	skip, limit := pagination(c)

	ms, err := h.Requests.ListByContract(ctx, ct.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ms == nil {
		ms = []*repository.MaintenanceRequest{}
	}
	return c.JSON(http.StatusOK, ms)
}

// Update advances a request's status or records cost and completion
// details. The request is addressed by its own id; the contract is
// resolved from it, and only the property owner may update. Marking a
// request completed stamps the completion date if none was supplied.
func (h *MaintenanceHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reqID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateMaintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Requests.GetByID(ctx, reqID)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "maintenance request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ct, err := h.Contracts.GetByID(ctx, m.ContractID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Policy.AuthorizeContractManage(ctx, u, ct); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Status != nil {
		if !repository.ValidStatus(*req.Status) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid status"})
		}
		m.Status = *req.Status
	}
	if req.Priority != nil {
		if !repository.ValidPriority(*req.Priority) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid priority"})
		}
		m.Priority = *req.Priority
	}
	if req.CompletionDate != nil {
		if *req.CompletionDate == "" {
			m.CompletionDate = nil
		} else {
			d, err := parseDate(*req.CompletionDate)
			if err != nil {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "completion_date must be YYYY-MM-DD"})
			}
			m.CompletionDate = &d
		}
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cost must not be negative"})
		}
		m.Cost = req.Cost
	}
	if req.Notes != nil {
		m.Notes = req.Notes
	}
	if m.Status == repository.StatusCompleted && m.CompletionDate == nil {
		now := time.Now().UTC()
		m.CompletionDate = &now
	}

	if err := h.Requests.Update(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, m)
}
