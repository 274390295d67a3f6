// Package domainerrors provides code-tagged errors shared by services,
// stores, and transport. Services construct these at decision points;
// handlers translate the code into an HTTP status without inspecting
// error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers and for HTTP translation.
type Code string

// Generic codes. Stores and services use these for failures that are not
// specific to the registry domain.
const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
)

// Registry domain codes. These map one-to-one onto admission outcomes the
// caller must be able to distinguish.
const (
	CodeAuthorityNotVerified  Code = "authority_not_verified"
	CodeMaxAgreementsExceeded Code = "max_agreements_exceeded"
	CodeTransferFailed        Code = "transfer_failed"
)

// Error carries a code, a human-readable message, an optional field name
// for validation failures, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs an error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// NewField constructs a validation-style error attributed to a single field.
func NewField(code Code, field, message string) error {
	return &Error{Code: code, Message: message, Field: field}
}

// Wrap annotates err with a code and message while keeping it in the chain
// for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.cause
		e = nil
	}
	return false
}

// Is is an alias of HasCode kept for readability at call sites that test a
// single expected code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// GetCode returns the outermost code carried by err, or CodeInternal when
// err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FieldName returns the field a validation error is attributed to, or ""
// when the error is not field-scoped.
func FieldName(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// Message returns the human-readable message for err, or err.Error() for
// foreign errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ToHTTPStatus maps a code to the HTTP status the transport layer reports.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeAuthorityNotVerified:
		return http.StatusPreconditionFailed
	case CodeMaxAgreementsExceeded:
		return http.StatusConflict
	case CodeTransferFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
