package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rulzi/instaapp-go/internal/transport"
)

const validationMessage = "Please check the highlighted fields."

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field errors under the wire name, matching the server's shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest validates req locally and short-circuits before any network
// call when it fails, returning the same envelope shape a server-side 422
// would produce.
func (c *Client) checkRequest(req any) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	fieldErrors := make(map[string][]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], fieldMessage(fe))
		}
	}
	return &Error{Kind: transport.KindValidation, Message: validationMessage, Errors: fieldErrors}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	default:
		return "Invalid value."
	}
}
