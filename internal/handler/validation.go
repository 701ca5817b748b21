package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator registered on the echo instance.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// fieldError is one entry of the field-level detail returned on validation
// failures.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// validationDetails extracts field-level errors from a validator error, or
// nil when the error carries no field information.
func validationDetails(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return details
}

// validationError writes the standard 400 response for rejected input.
func validationError(c echo.Context, message string, err error) error {
	resp := echo.Map{"error": message}
	if details := validationDetails(err); details != nil {
		resp["details"] = details
	}
	return c.JSON(http.StatusBadRequest, resp)
}
