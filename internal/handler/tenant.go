package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
)

// TenantHandler bundles dependencies for tenant-profile endpoints.
type TenantHandler struct {
	Tenants *repository.TenantRepo
}

func NewTenantHandler(t *repository.TenantRepo) *TenantHandler {
	if t == nil {
		panic("nil repository passed to NewTenantHandler")
	}
	return &TenantHandler{Tenants: t}
}

type registerTenantReq struct {
	DateOfBirth           *string `json:"date_of_birth"` // YYYY-MM-DD
	Occupation            *string `json:"occupation"`
	Employer              *string `json:"employer"`
	AnnualIncome          *int64  `json:"annual_income"`
	IdentificationType    string  `json:"identification_type" validate:"required"`
	IdentificationNumber  string  `json:"identification_number" validate:"required"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	References            *string `json:"references"`
}

type updateTenantReq struct {
	DateOfBirth           *string `json:"date_of_birth"`
	Occupation            *string `json:"occupation"`
	Employer              *string `json:"employer"`
	AnnualIncome          *int64  `json:"annual_income"`
	IdentificationType    *string `json:"identification_type"`
	IdentificationNumber  *string `json:"identification_number"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	References            *string `json:"references"`
}

// Register creates the caller's tenant profile and grants the tenant
// role in the same transaction. A user registers at most once.
func (h *TenantHandler) Register(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req registerTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	t := &repository.Tenant{
		UserID:                u.ID,
		Occupation:            req.Occupation,
		Employer:              req.Employer,
		AnnualIncome:          req.AnnualIncome,
		IdentificationType:    req.IdentificationType,
		IdentificationNumber:  req.IdentificationNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		References:            req.References,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		t.DateOfBirth = &dob
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Existence check first so a double registration reads as "already
	// registered" rather than a bare duplicate-key conflict.
	if _, err := h.Tenants.GetByUserID(ctx, u.ID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant profile already exists"})
	} else if err != repository.ErrTenantNotFound {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Tenants.Create(ctx, t); err != nil {
		switch err {
		case repository.ErrIdentificationExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "identification number already registered"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "tenant profile already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tenant failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Me returns the caller's tenant profile.
func (h *TenantHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tenants.GetByUserID(ctx, u.ID)
	if err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// UpdateMe merges partial input into the caller's tenant profile.
func (h *TenantHandler) UpdateMe(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tenants.GetByUserID(ctx, u.ID)
	if err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			t.DateOfBirth = nil
		} else {
			dob, err := parseDate(*req.DateOfBirth)
			if err != nil {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
			}
			t.DateOfBirth = &dob
		}
	}
	if req.Occupation != nil {
		t.Occupation = req.Occupation
	}
	if req.Employer != nil {
		t.Employer = req.Employer
	}
	if req.AnnualIncome != nil {
		t.AnnualIncome = req.AnnualIncome
	}
	if req.IdentificationType != nil {
		t.IdentificationType = *req.IdentificationType
	}
	if req.IdentificationNumber != nil {
		t.IdentificationNumber = *req.IdentificationNumber
	}
	if req.EmergencyContactName != nil {
		t.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		t.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.References != nil {
		t.References = req.References
	}

	if err := h.Tenants.Update(ctx, t); err != nil {
		if err == repository.ErrIdentificationExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "identification number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Get returns a tenant profile by tenant id. Any active user may read
// one; owners use it to vet applicants and read contract parties.
func (h *TenantHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrTenantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}
