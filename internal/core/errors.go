package core

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the request boundary.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

// Error carries a client-facing message together with its kind. Message is
// safe to show to the caller; Err is kept for logs.
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

// Messages shared between the services and their tests.
const (
	MsgEmailExists        = "Email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidOTP         = "Invalid OTP"
	MsgOTPExpired         = "OTP expired"
	MsgUserNotFound       = "User not found"
	MsgInvalidToken       = "Invalid or expired token"
	MsgTripNotFound       = "Trip not found"
	MsgBudgetNotSet       = "Budget not set for this trip"
	MsgCategoryExists     = "Category already exists"
	MsgTripOrCategory     = "Trip or category not found"
)

func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
