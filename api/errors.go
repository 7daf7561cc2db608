// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for statrelay.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the relay.
var (
	ErrHandleInvalid   = errors.New("connection handle is invalid")
	ErrShortWrite      = errors.New("short write")
	ErrPeerClosed      = errors.New("peer closed the connection")
	ErrWouldBlock      = errors.New("no data available")
	ErrNotSupported    = errors.New("operation not supported on this platform")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrorCode classifies a failure the way the relay reacts to it.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	// ErrCodeSetup covers socket creation, resolve, bind, listen, connect,
	// accept and readiness registration.
	ErrCodeSetup
	// ErrCodeRuntime covers wait, read and write failures on a live handle.
	ErrCodeRuntime
	ErrCodeInvalidArgument
	ErrCodeShortWrite
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeSetup:
		return "setup"
	case ErrCodeRuntime:
		return "runtime"
	case ErrCodeInvalidArgument:
		return "invalid-argument"
	case ErrCodeShortWrite:
		return "short-write"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error represents a structured error with code and the failing step.
type Error struct {
	Code ErrorCode
	Op   string // step or operation name, e.g. "connect", "wait"
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Code, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

// Unwrap exposes the underlying system error.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new structured error.
func NewError(code ErrorCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// SetupError wraps err as a failure of the named setup step.
func SetupError(step string, err error) *Error {
	return NewError(ErrCodeSetup, step, err)
}

// RuntimeError wraps err as a failure of the named runtime operation.
func RuntimeError(op string, err error) *Error {
	return NewError(ErrCodeRuntime, op, err)
}

// CodeOf returns the ErrorCode carried by err, or ErrCodeOK when err is nil
// or carries no code.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeOK
}

// OpOf returns the step or operation name carried by err.
func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// IsSetup reports whether err is a connection setup failure.
func IsSetup(err error) bool { return CodeOf(err) == ErrCodeSetup }

// IsRuntime reports whether err is a failure on an established handle.
// Short writes to the output stream count as runtime failures.
func IsRuntime(err error) bool {
	c := CodeOf(err)
	return c == ErrCodeRuntime || c == ErrCodeShortWrite
}
