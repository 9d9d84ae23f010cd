package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		maxBytesErr *http.MaxBytesError
		fieldErrs   validator.ValidationErrors
	)

	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict

	// Payload too large
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrInvalidJSON),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		validationErr *domain.ValidationError
		fieldErrs     validator.ValidationErrors
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return "not found"

	case errors.Is(err, store.ErrInvalidTransition):
		return "Task has already finished"

	case errors.As(err, &maxBytesErr):
		return "Request body too large"

	case errors.As(err, &fieldErrs):
		return SanitizeValidationError(fieldErrs)

	// Domain validation messages name only the field and the rule.
	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, shared.ErrInvalidJSON):
		return "Invalid request format"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns struct validation failures into a short
// client-facing message naming the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}

	fieldErr := errs[0]
	return fmt.Sprintf("Invalid %s: %s",
		strings.ToLower(fieldErr.Field()),
		getValidationTagMessage(fieldErr.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status code and safe message for err. If
// userMessage is non-empty it replaces the default message for 4xx errors.
// 5xx responses always use the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if userMessage != "" && status < http.StatusInternalServerError {
		message = userMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
