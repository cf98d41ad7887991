package api

import "github.com/rulzi/instaapp-go/internal/transport"

// Error is a failed API call. It preserves the result envelope so callers
// keep a single handling path across validation, transport, and application
// failures.
type Error struct {
	Kind    transport.Kind
	Message string
	Errors  map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

func resultError(r transport.Result) *Error {
	return &Error{Kind: r.Kind, Message: r.Message, Errors: r.Errors}
}
