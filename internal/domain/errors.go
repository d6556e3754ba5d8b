package domain

import (
	"errors"
	"fmt"
)

// Kind classifies errors crossing the service boundary so transports can
// pick a status code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindBadInput
	KindNotFound
	KindExpired
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindUnavailable:
		return "temporarily_unavailable"
	default:
		return "internal"
	}
}

// Error is the error type returned by the application layer.
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

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal when err is not
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err. Internal errors never
// expose their cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}
