package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/repository"
)

// PaymentHandler bundles dependencies for rent-payment endpoints.
// Payments are append-only child records of a contract.
type PaymentHandler struct {
	Payments  *repository.PaymentRepo
	Contracts *repository.ContractRepo
	Policy    *policy.Policy
}

func NewPaymentHandler(p *repository.PaymentRepo, c *repository.ContractRepo, pol *policy.Policy) *PaymentHandler {
	if p == nil || c == nil || pol == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: p, Contracts: c, Policy: pol}
}

type createPaymentReq struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate   string  `json:"payment_date" validate:"required"` // YYYY-MM-DD
	PaymentMethod *string `json:"payment_method"`
	TransactionID *string `json:"transaction_id"`
	IsLate        bool    `json:"is_late"`
	LateFee       float64 `json:"late_fee" validate:"min=0"`
	Notes         *string `json:"notes"`
}

// contractForChild fetches the :id contract for a child-record route and
// applies the given policy check.
func (h *PaymentHandler) contractForChild(c echo.Context, ctx context.Context,
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

// Create records a rent payment against a contract. Either party to the
// contract may record one. When no transaction id is supplied a UUID is
// generated so every payment stays individually traceable.
func (h *PaymentHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.contractForChild(c, ctx, h.Policy.AuthorizeContractRead)
	if !ok {
		return nil
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := parseDate(req.PaymentDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "payment_date must be YYYY-MM-DD"})
	}

	p := &repository.RentPayment{
		ContractID:    ct.ID,
		Amount:        req.Amount,
		PaymentDate:   date,
		PaymentMethod: req.PaymentMethod,
		IsLate:        req.IsLate,
		LateFee:       req.LateFee,
		Notes:         req.Notes,
	}
	if req.TransactionID != nil && *req.TransactionID != "" {
		p.TransactionID = *req.TransactionID
	} else {
		p.TransactionID = uuid.NewString()
	}

	if err := h.Payments.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns a contract's payment history, visible to either party.
func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ct, ok := h.contractForChild(c, ctx, h.Policy.AuthorizeContractRead)
	if !ok {
		return nil
	}
	skip, limit := pagination(c)

	ps, err := h.Payments.ListByContract(ctx, ct.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ps == nil {
		ps = []*repository.RentPayment{}
	}
	return c.JSON(http.StatusOK, ps)
}

// Late lists late payments across all of the caller's properties.
// Owner-only; backed by a join through contracts and properties.
func (h *PaymentHandler) Late(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Payments.ListLateByOwner(ctx, u.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ps == nil {
		ps = []*repository.RentPayment{}
	}
	return c.JSON(http.StatusOK, ps)
}
