package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the transport layer can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindAuthenticationRequired
	KindUnauthorized
	KindNotFound
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func InvalidInput(msg string) *Error           { return New(KindInvalidInput, msg) }
func AuthenticationRequired(msg string) *Error { return New(KindAuthenticationRequired, msg) }
func Unauthorized(msg string) *Error           { return New(KindUnauthorized, msg) }
func NotFound(msg string) *Error               { return New(KindNotFound, msg) }
func Conflict(msg string) *Error               { return New(KindConflict, msg) }

// KindOf returns the kind carried by err, or KindUnknown when err is not an
// application error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
