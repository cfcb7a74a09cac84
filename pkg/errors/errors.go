// Package errors provides the coded errors shared by the dijkstraviz CLI, the
// terminal UI and the HTTP surface.
//
// Every failure a user can cause carries a [Code]. Codes fall into a few
// categories that decide how each surface reacts:
//
//   - INVALID_*: a value was rejected (node count, probability, node id,
//     rate, output format). HTTP 400, exit status 2.
//   - NO_*: the session is not ready (no graph yet, no source picked).
//     HTTP 409; the TUI shows the message in its status bar.
//   - NOT_FOUND: a requested resource does not exist. HTTP 404.
//   - UNSUPPORTED: the build cannot do this (e.g. a missing renderer). HTTP 501.
//   - INTERNAL_ERROR and uncoded errors: everything else.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidNode, "node %d out of range", id)
//	if errors.Is(err, errors.ErrCodeInvalidNode) {
//	    // re-prompt
//	}
//
//	err := errors.Wrap(errors.ErrCodeInternal, cause, "render %s", format)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidNodeCount   Code = "INVALID_NODE_COUNT"
	ErrCodeInvalidProbability Code = "INVALID_PROBABILITY"
	ErrCodeInvalidNode        Code = "INVALID_NODE"
	ErrCodeInvalidRate        Code = "INVALID_RATE"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"

	ErrCodeNoGraph  Code = "NO_GRAPH"
	ErrCodeNoSource Code = "NO_SOURCE"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Category groups codes by who has to act on them.
type Category uint8

const (
	CategoryInternal    Category = iota // a bug or an environment failure
	CategoryInput                       // the caller passed a bad value
	CategoryNotReady                    // the session needs a graph or a selection first
	CategoryNotFound                    // the resource does not exist
	CategoryUnsupported                 // the operation is not available in this build
)

// Category returns c's category. Unknown and empty codes are internal.
func (c Code) Category() Category {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidNodeCount, ErrCodeInvalidProbability,
		ErrCodeInvalidNode, ErrCodeInvalidRate, ErrCodeInvalidFormat:
		return CategoryInput
	case ErrCodeNoGraph, ErrCodeNoSource:
		return CategoryNotReady
	case ErrCodeNotFound:
		return CategoryNotFound
	case ErrCodeUnsupported:
		return CategoryUnsupported
	default:
		return CategoryInternal
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string // shown to users as is
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for coded errors
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Exit statuses returned by ExitCode.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps a command error to a process exit status: 130 for an
// interrupt, 2 for rejected input, 1 for anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case GetCode(err).Category() == CategoryInput:
		return ExitUsage
	default:
		return ExitFailure
	}
}
