package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator adapts go-playground/validator to echo's Validator
// interface, reporting field errors under their wire names.
type requestValidator struct {
	validate *validator.Validate
}

// NewValidator creates the echo request validator.
func NewValidator() echo.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (rv *requestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrors := make(map[string][]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], "The "+fe.Field()+" field is invalid.")
		}
	}
	return &validationError{fields: fieldErrors}
}

type validationError struct {
	fields map[string][]string
}

func (e *validationError) Error() string {
	return "The given data was invalid."
}

// bindAndValidate binds the request body into req and runs validation,
// writing the 422 envelope itself when validation fails.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, respondError(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		var verr *validationError
		if errors.As(err, &verr) {
			return false, respondValidation(c, http.StatusUnprocessableEntity, verr.Error(), verr.fields)
		}
		return false, respondError(c, http.StatusUnprocessableEntity, err.Error())
	}
	return true, nil
}
