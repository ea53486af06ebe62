// Package apperr defines the coded errors returned by the food hub core.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code names a failure kind.
type Code string

const (
	CodeInvalidRequest    Code = "INVALID_REQUEST"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeOrderNotFound     Code = "ORDER_NOT_FOUND"
	CodeProviderMismatch  Code = "PROVIDER_MISMATCH"
	CodeNotFound          Code = "NOT_FOUND"
	CodeStorageFailure    Code = "STORAGE_FAILURE"
)

// Metadata describes how a code is surfaced to callers.
type Metadata struct {
	HTTPStatus int
	// PublicMessage replaces the error message when DetailsAllowed is false.
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeInvalidRequest: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid request",
		DetailsAllowed: true,
	},
	CodeInsufficientStock: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "insufficient stock, please refresh and try again",
		DetailsAllowed: true,
	},
	CodeOrderNotFound: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "order not found or already picked up",
		DetailsAllowed: true,
	},
	CodeProviderMismatch: {
		HTTPStatus:     http.StatusForbidden,
		PublicMessage:  "this order does not belong to the current hub",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "resource not found",
		DetailsAllowed: true,
	},
	CodeStorageFailure: {
		HTTPStatus:     http.StatusInternalServerError,
		PublicMessage:  "internal server error",
		DetailsAllowed: false,
	},
}

// MetadataFor returns the metadata for a code. Unknown codes are treated as storage failures.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeStorageFailure]
}

// Error is a coded error with an optional cause.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

// New returns an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code to err.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeStorageFailure
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured details, such as per-item shortfalls.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// CodeOf returns the code carried by err. Uncoded errors are storage failures.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.code
	}
	return CodeStorageFailure
}
