package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/repository"
)

// PropertyHandler bundles dependencies for property endpoints.
type PropertyHandler struct {
	Properties *repository.PropertyRepo
}

func NewPropertyHandler(p *repository.PropertyRepo) *PropertyHandler {
	if p == nil {
		panic("nil repository passed to NewPropertyHandler")
	}
	return &PropertyHandler{Properties: p}
}

type createPropertyReq struct {
	Title           string   `json:"title" validate:"required"`
	Description     *string  `json:"description"`
	PropertyType    string   `json:"property_type" validate:"required"`
	Address         string   `json:"address" validate:"required"`
	City            string   `json:"city" validate:"required"`
	State           string   `json:"state" validate:"required"`
	ZipCode         string   `json:"zip_code" validate:"required"`
	Country         string   `json:"country"`
	Bedrooms        int      `json:"bedrooms" validate:"min=0"`
	Bathrooms       float64  `json:"bathrooms" validate:"min=0"`
	AreaSqft        *float64 `json:"area_sqft"`
	MonthlyRent     float64  `json:"monthly_rent" validate:"required,gt=0"`
	SecurityDeposit float64  `json:"security_deposit" validate:"min=0"`
	Amenities       *string  `json:"amenities"`
	Images          *string  `json:"images"`
}

// updatePropertyReq uses pointer fields so absent keys leave the stored
// value untouched (load-merge-write).
type updatePropertyReq struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	PropertyType    *string  `json:"property_type"`
	Address         *string  `json:"address"`
	City            *string  `json:"city"`
	State           *string  `json:"state"`
	ZipCode         *string  `json:"zip_code"`
	Country         *string  `json:"country"`
	Bedrooms        *int     `json:"bedrooms"`
	Bathrooms       *float64 `json:"bathrooms"`
	AreaSqft        *float64 `json:"area_sqft"`
	MonthlyRent     *float64 `json:"monthly_rent"`
	SecurityDeposit *float64 `json:"security_deposit"`
	IsAvailable     *bool    `json:"is_available"`
	Amenities       *string  `json:"amenities"`
	Images          *string  `json:"images"`
}

// List is the public browse/search endpoint. Filters arrive as query
// parameters and combine with AND; only available listings are returned.
func (h *PropertyHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	var f repository.PropertyFilter
	f.City = c.QueryParam("city")
	f.State = c.QueryParam("state")
	f.PropertyType = c.QueryParam("property_type")
	if v := c.QueryParam("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.MinBedrooms = n
		}
	}
	if v := c.QueryParam("max_rent"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			f.MaxRent = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Properties.Search(ctx, f, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if props == nil {
		props = []*repository.Property{}
	}
	return c.JSON(http.StatusOK, props)
}

// Create registers a new listing under the authenticated owner. New
// properties start available.
func (h *PropertyHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p := &repository.Property{
		OwnerID:         u.ID,
		Title:           req.Title,
		Description:     req.Description,
		PropertyType:    req.PropertyType,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
		Country:         req.Country,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		AreaSqft:        req.AreaSqft,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		IsAvailable:     true,
		Amenities:       req.Amenities,
		Images:          req.Images,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Properties.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// MyProperties lists every property of the authenticated owner,
// including unavailable ones.
func (h *PropertyHandler) MyProperties(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Properties.ListByOwner(ctx, u.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if props == nil {
		props = []*repository.Property{}
	}
	return c.JSON(http.StatusOK, props)
}

// Get returns a single property by id. Listings are public, so no
// authentication is required to read one.
func (h *PropertyHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update merges partial input into the stored record. Existence is
// checked before ownership, so a missing id reads 404 and a foreign one
// reads 403.
func (h *PropertyHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updatePropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := policy.AuthorizePropertyWrite(u, p); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your property"})
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.ZipCode != nil {
		p.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		p.Country = *req.Country
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.AreaSqft != nil {
		p.AreaSqft = req.AreaSqft
	}
	if req.MonthlyRent != nil {
		p.MonthlyRent = *req.MonthlyRent
	}
	if req.SecurityDeposit != nil {
		p.SecurityDeposit = *req.SecurityDeposit
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if req.Amenities != nil {
		p.Amenities = req.Amenities
	}
	if req.Images != nil {
		p.Images = req.Images
	}

	if err := h.Properties.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a listing. Same 404-before-403 ordering as Update.
func (h *PropertyHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := policy.AuthorizePropertyWrite(u, p); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your property"})
	}

	if err := h.Properties.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
