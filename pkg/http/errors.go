package http

import (
	"fmt"
	"net/http"
)

// AppError is an error with a stable code and the HTTP status it maps to.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Status: status}
}

// WithParam attaches one detail shown to the client.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{}, 1)
	}
	e.Params[key] = value
	return e
}

// WithError keeps the cause for logs; it is never serialized.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func NotFoundError(message string) *AppError {
	return NewAppError("ERR_NOT_FOUND", "", message, http.StatusNotFound)
}

func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", "", message, http.StatusBadRequest)
}

// UnknownSymbolError is the 404 returned when a symbol cannot be resolved.
func UnknownSymbolError(symbol string) *AppError {
	return NewAppError("ERR_NOT_FOUND", "symbol", fmt.Sprintf("unknown symbol %q", symbol), http.StatusNotFound).
		WithParam("symbol", symbol)
}

// UpstreamUnavailableError is the 503 returned when no source and no fallback could answer.
func UpstreamUnavailableError(what string) *AppError {
	return NewAppError("ERR_UPSTREAM_UNAVAILABLE", "", what+" is temporarily unavailable", http.StatusServiceUnavailable)
}

func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}
