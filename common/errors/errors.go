// Package errors defines the error kinds a snapshot run can report and the
// process exit codes they map to.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can aggregate outcomes without
// parsing log text.
type Kind int

const (
	Unknown Kind = iota
	FileSystemError
	NotAVersionControlledTree
	ExternalToolUnavailable
	ExternalToolFailure
	NoActiveEnvironment
)

func (k Kind) String() string {
	switch k {
	case FileSystemError:
		return "FileSystemError"
	case NotAVersionControlledTree:
		return "NotAVersionControlledTree"
	case ExternalToolUnavailable:
		return "ExternalToolUnavailable"
	case ExternalToolFailure:
		return "ExternalToolFailure"
	case NoActiveEnvironment:
		return "NoActiveEnvironment"
	}
	return "Unknown"
}

// Error is a failure of a named operation, tagged with its Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Cause lets errors.Cause walk through an *Error.
func (e *Error) Cause() error { return e.Err }

// Unwrap lets the standard library errors package walk through an *Error.
func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error. A nil err still produces an error, since the kind
// alone is meaningful (e.g. NoActiveEnvironment).
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Ef builds an *Error with a formatted cause.
func Ef(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return Unknown
		}
		err = c.Cause()
	}
	return Unknown
}

// Is reports whether any *Error in err's chain has the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}
