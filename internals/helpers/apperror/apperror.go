// Package apperror is the error taxonomy services return and the HTTP error
// handler maps to status codes.
package apperror

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(entity string, key any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id %v not found", entity, key)}
}

func NotFoundMsg(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Conflict is a business-rule collision (duplicates, full classes). It is
// reported to clients as a bad request.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Validation(fields map[string][]string) *Error {
	if fields == nil {
		fields = map[string][]string{}
	}
	return &Error{Kind: KindValidation, Message: "One or more validation errors occurred", Fields: fields}
}

// ValidationField is the single-field shorthand.
func ValidationField(field, msg string) *Error {
	return Validation(map[string][]string{field: {msg}})
}

// Internal wraps cause with a stack trace.
func Internal(cause error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: errors.WithStack(cause)}
}

// As extracts an *Error anywhere in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}
