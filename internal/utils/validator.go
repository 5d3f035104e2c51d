package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate() on bound DTOs.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator constructs a validator with struct tag support.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New()}
}

// Validate runs struct validation and converts failures into a 400 HTTP
// error so Echo surfaces the message to the client verbatim.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
