package errors

import (
	"errors"
	"net/http"
)

// Kind is the category an Exception belongs to.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
)

// Exception is an error that knows its category and HTTP status.
//
// Code distinguishes specific failures inside a Kind: errors.Is against a
// sentinel with a Code matches only that code, while errors.Is against a
// sentinel without one matches the whole Kind.
type Exception struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *Exception) WithMessage(msg string) *Exception {
	return &Exception{
		Kind:       e.Kind,
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// KindOf returns the Kind of err, or "" for errors that are not Exceptions.
func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
