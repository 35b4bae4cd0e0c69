package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError represents an error that is safe to show to API callers.
type APIError struct {
	Status   int               `json:"-"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
	Internal error             `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func newAPIError(status int, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: err,
	}
}

func BadRequest(message string, err error) *APIError {
	return newAPIError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return newAPIError(http.StatusUnauthorized, message, err)
}

func NotFound(message string, err error) *APIError {
	return newAPIError(http.StatusNotFound, message, err)
}

func Unprocessable(message string, err error) *APIError {
	return newAPIError(http.StatusUnprocessableEntity, message, err)
}

// BadGateway reports a failure of an upstream dependency (host framework, DeepL).
func BadGateway(message string, err error) *APIError {
	return newAPIError(http.StatusBadGateway, message, err)
}

func Internal(err error) *APIError {
	return newAPIError(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError converts binding errors into a 422 with one message per field.
func NewValidationError(err error) *APIError {
	apiErr := Unprocessable("Validation failed", err)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apiErr.Message = "Invalid request body"
		return apiErr
	}

	apiErr.Details = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		apiErr.Details[strings.ToLower(fe.Field())] = validationMessage(fe)
	}
	return apiErr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "langcodes":
		return "must be a comma separated list of language codes"
	default:
		return "is invalid"
	}
}
