package transport

import "encoding/json"

// Kind classifies a failed Result so callers can tell the failure classes
// apart without parsing messages.
type Kind int

const (
	// KindNone marks a successful result.
	KindNone Kind = iota
	// KindTimeout means the request did not settle within the budget and was aborted.
	KindTimeout
	// KindTransport covers network faults: dial/DNS failures, malformed responses.
	KindTransport
	// KindApplication is a non-2xx response with a structured message.
	KindApplication
	// KindValidation is a client-side validation failure; no request was sent.
	KindValidation
)

// Result is the uniform envelope every call resolves to. Send never returns a
// Go error: success and all failure classes arrive in this one shape, so
// callers have a single handling path.
type Result struct {
	Success bool
	Kind    Kind
	Data    json.RawMessage
	Message string
	Errors  map[string][]string
}

// Decode unmarshals the payload of a successful Result into v. It is a no-op
// when the result carries no payload.
func (r Result) Decode(v any) error {
	if v == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Failure builds a failed Result of the given kind.
func Failure(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}
