package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/profile2pdf/internal/credentials"
	"github.com/jonathan/profile2pdf/internal/ingestion"
	"github.com/jonathan/profile2pdf/internal/resume"
	"github.com/jonathan/profile2pdf/internal/schemas"
	"github.com/jonathan/profile2pdf/internal/session"
)

// RequestError indicates a malformed or invalid request
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ErrorResponse is the body of every JSON error response
type ErrorResponse struct {
	Error   string               `json:"error"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		requestErr    *RequestError
		validationErr *schemas.ValidationError
		editErr       *resume.EditError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &requestErr),
		errors.As(err, &validationErr),
		errors.Is(err, ingestion.ErrInvalidURL),
		errors.Is(err, credentials.ErrBlankKey):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &editErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) ErrorResponse {
	body := ErrorResponse{Error: err.Error()}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		body.Error = "validation failed"
		body.Details = validationErr.Errors
	}
	return body
}
