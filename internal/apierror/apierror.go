// Package apierror defines the wire shape of every 4xx/5xx response the
// storefront and admin panel see. Domain errors are translated into these
// envelopes at the handler layer; raw driver errors never reach a client.
package apierror

// APIError carries a single human-readable message, in Spanish, matching
// what the storefront shows the customer verbatim.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError reports per-field problems from request binding, keyed by
// the JSON field name the client sent.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
