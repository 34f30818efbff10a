package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes failures so callers can decide what is fatal.
type Kind string

const (
	// KindInvalidInput indicates a malformed hex literal or request.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindInvalidConfiguration indicates a bad modulus, driver or missing credentials.
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"

	// KindStorage indicates connectivity, insert, update or finalize failure.
	KindStorage Kind = "STORAGE_ERROR"

	// KindConfirmationService indicates the external confirmation call failed.
	KindConfirmationService Kind = "CONFIRMATION_SERVICE_ERROR"

	// KindNotFound indicates a requested record does not exist.
	KindNotFound Kind = "NOT_FOUND"
)

// Error is the typed error returned across package boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and operation to err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
