package apperr

import "fmt"

// Kind classifies a business failure so handlers can map it to an HTTP status
// without string matching.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInactiveSubject
	KindInvalidRequest
	KindInvalidTransition
	KindForbidden
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func InactiveSubject(format string, args ...any) *Error {
	return New(KindInactiveSubject, format, args...)
}

func InvalidRequest(format string, args ...any) *Error {
	return New(KindInvalidRequest, format, args...)
}

// InvalidTransition reports a status change not present in the transition table.
func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, "invalid transition from %s to %s", from, to)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

// Conflict marks a retryable collision, e.g. a booking number already taken.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}
