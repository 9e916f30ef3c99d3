// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps a validator instance for echo.
type CustomValidator struct {
	validator *playground.Validate
}

// New creates a CustomValidator with struct tag validation enabled.
func New() *CustomValidator {
	return &CustomValidator{
		validator: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Validation failures are returned as
// 400 HTTPErrors so the error handler renders them as client errors.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
