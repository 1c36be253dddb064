package types

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error taxonomy shared by services and handlers. Handlers translate
// these into HTTP statuses with ErrorStatus; anything unrecognized is a
// storage or programming failure and surfaces as a generic 500.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }
func NewNotFoundError(msg string) error   { return &NotFoundError{Message: msg} }
func NewConflictError(msg string) error   { return &ConflictError{Message: msg} }
func NewForbiddenError(msg string) error  { return &ForbiddenError{Message: msg} }

// ErrorStatus maps a service error to the HTTP status the API surfaces.
func ErrorStatus(err error) int {
	var ve *ValidationError
	var nf *NotFoundError
	var ce *ConflictError
	var fe *ForbiddenError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &fe):
		return http.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the client-facing message for an error. Internal
// failures are never echoed back verbatim.
func ErrorMessage(err error) string {
	if ErrorStatus(err) == http.StatusInternalServerError {
		return "something went wrong"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "record not found"
	}
	return err.Error()
}
