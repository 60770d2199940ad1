package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPermission          = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrInternal            = errors.New("internal server error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRejected    = errors.New("upstream rejected")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

// NewNotFoundOrForbidden hides whether the resource exists: callers get the
// same answer for a missing record and for someone else's record.
func NewNotFoundOrForbidden(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found or not yours", resource)
	details := fmt.Sprintf("no %s '%s' owned by caller", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, details, details, err)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "User is not logged in", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewUpstreamTimeout(details string, err error) *AppError {
	return NewAppError(ErrUpstreamTimeout, "Media service timed out, try again with a smaller file", details, err)
}

func NewUpstreamUnavailable(details string, err error) *AppError {
	return NewAppError(ErrUpstreamUnavailable, "Media service is unavailable", details, err)
}

func NewUpstreamRejected(details string, err error) *AppError {
	return NewAppError(ErrUpstreamRejected, "Media service rejected the request", details, err)
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamRejected) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text a caller is allowed to see. Internal failures
// collapse to a generic message.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrInternal.Error()
	}
	if errors.Is(appErr, ErrInternal) {
		return ErrInternal.Error()
	}
	return appErr.Message
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error": PublicMessage(e),
	}
}
