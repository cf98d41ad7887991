package server

import "github.com/labstack/echo/v4"

// envelope is the canonical response shape: success flag, optional message,
// payload under data, field errors for validation failures.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: true, Message: message})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message})
}

func respondValidation(c echo.Context, status int, message string, errs map[string][]string) error {
	return c.JSON(status, envelope{Success: false, Message: message, Errors: errs})
}
