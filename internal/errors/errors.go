package errors

import "fmt"

// Kind classifies an application error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrConflict
	ErrInvalidBid
	ErrBudgetExceeded
	ErrRosterRule
	ErrDataLoad
)

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
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

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidBid(msg string) *Error {
	return &Error{Kind: ErrInvalidBid, Message: msg}
}

func InvalidBidf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidBid, Message: fmt.Sprintf(format, args...)}
}

func BudgetExceeded(msg string) *Error {
	return &Error{Kind: ErrBudgetExceeded, Message: msg}
}

func BudgetExceededf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrBudgetExceeded, Message: fmt.Sprintf(format, args...)}
}

func RosterRule(msg string) *Error {
	return &Error{Kind: ErrRosterRule, Message: msg}
}

func RosterRulef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrRosterRule, Message: fmt.Sprintf(format, args...)}
}

func DataLoad(msg string, err error) *Error {
	return &Error{Kind: ErrDataLoad, Message: msg, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the Kind from an error, returning ErrInternal for
// errors that are not application errors.
func KindOf(err error) Kind {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return ErrInternal
}
