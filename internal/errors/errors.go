// Package errors provides coded errors for yolk commands.
//
// Overview:
//   - Responsibility: Classify failures so the CLI can pick an exit code and message
//   - Key Types: E (coded error), Builder (fluent constructor)
//   - Error Semantics: Compatible with errors.Is / errors.As from the standard library
//
// Usage:
//
//	err := errors.New(errors.CodeInvalidArgument, "model name is empty")
//	wrapped := errors.Wrap(errors.CodeUnavailable, "sequelize.connect", dbErr)
//	os.Exit(errors.ExitCode(wrapped))
package errors

import (
	"errors"
	"fmt"
)

// Code represents an error classification code.
type Code string

// Error codes used across yolk.
const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeUnimplemented   Code = "UNIMPLEMENTED"
	CodeInternal        Code = "INTERNAL"
)

// E is a structured error with code, operation, message and wrapped cause.
type E struct {
	Code Code   // Error classification code
	Op   string // Operation that failed, e.g. "generator.model"
	Err  error  // Underlying error (may be nil)
	Msg  string // Human-readable message
}

// Error implements the error interface.
func (e *E) Error() string {
	prefix := string(e.Code)
	if e.Op != "" {
		prefix = e.Op
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return prefix
	}
}

// Unwrap returns the underlying error.
func (e *E) Unwrap() error {
	return e.Err
}

// New creates a coded error with a message.
func New(code Code, msg string) error {
	return &E{Code: code, Msg: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &E{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error around err. It returns nil when err is nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{Code: code, Op: op, Err: err}
}

// Wrapf creates a coded error around err with a formatted message.
func Wrapf(code Code, op string, err error, format string, args ...any) error {
	return &E{Code: code, Op: op, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the outermost code from an error chain.
// Returns an empty code if no *E is present.
func CodeOf(err error) Code {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Is forwards to errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As forwards to errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ExitCode maps an error to the process exit status.
//
// Parameters:
//   - err: Error returned by a command handler (may be nil)
//
// Returns:
//   - int: 0 on success, 2 invalid argument, 3 not found, 4 already exists,
//     5 unavailable, 1 for everything else
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return 2
	case CodeNotFound:
		return 3
	case CodeAlreadyExists:
		return 4
	case CodeUnavailable:
		return 5
	default:
		return 1
	}
}

// Builder provides a fluent interface for constructing errors.
type Builder struct {
	code Code
	op   string
	err  error
	msg  string
}

// Build starts a new error with the given code.
func Build(code Code) *Builder {
	return &Builder{code: code}
}

// WithOp sets the operation that failed.
func (b *Builder) WithOp(op string) *Builder {
	b.op = op
	return b
}

// WithErr wraps an underlying error.
func (b *Builder) WithErr(err error) *Builder {
	b.err = err
	return b
}

// WithMsg sets a human-readable message.
func (b *Builder) WithMsg(msg string) *Builder {
	b.msg = msg
	return b
}

// WithMsgf sets a formatted human-readable message.
func (b *Builder) WithMsgf(format string, args ...any) *Builder {
	b.msg = fmt.Sprintf(format, args...)
	return b
}

// Err builds and returns the error.
func (b *Builder) Err() error {
	return &E{Code: b.code, Op: b.op, Err: b.err, Msg: b.msg}
}
