package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream unavailable")
)

// FieldError is one entry of the `errors` array returned on validation failures.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
	Fields    []FieldError
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

// Cause returns the underlying error that triggered this AppError, if any.
func (e *AppError) Cause() error {
	return e.Err
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(msg, details string) *AppError {
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewValidation(fields ...FieldError) *AppError {
	e := NewAppError(ErrInvalidInput, "Validation failed", fmt.Sprintf("%d field(s) invalid", len(fields)), nil)
	e.Fields = fields
	return e
}

func NewConflict(msg, details string) *AppError {
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "Server error", details, err)
}

func NewUnauthorized(msg string, err error) *AppError {
	return NewAppError(ErrUnauthorized, msg, "", err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "User not authorized", details, nil)
}

func NewUpstream(msg, details string, err error) *AppError {
	return NewAppError(ErrUpstream, msg, details, err)
}

// ToHTTPStatus follows the public API contract: lookups that find nothing answer 400,
// not 404, and a failing upstream lookup answers 404.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrPermission):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUpstream):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	switch {
	case len(e.Fields) > 0:
		return gin.H{"errors": e.Fields}
	case errors.Is(e.BaseError, ErrConflict), errors.Is(e.BaseError, ErrInvalidInput):
		return gin.H{"errors": []FieldError{{Msg: e.Message}}}
	case errors.Is(e.BaseError, ErrInternal):
		return gin.H{"msg": "Server error"}
	}
	return gin.H{"msg": e.Message}
}
