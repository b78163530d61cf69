package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested resource (e.g. an output file) is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input of an operation is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrNotSupported is returned for compiler modes the bridge doesn't implement.
	ErrNotSupported = errors.New("not supported")
	// ErrMalformedOutput is returned when an expected structured payload can't be parsed.
	ErrMalformedOutput = errors.New("malformed output")
)

// CompilerError is a structured exception reported by the compiler on stderr.
type CompilerError struct {
	Severity  string
	Message   string
	ErrorCode int
	Span      *Span
}

func (e *CompilerError) Error() string {
	if e.Span != nil && e.Span.FileName != "" {
		return fmt.Sprintf("compiler %s %d: %s (%s:%d:%d)", e.Severity, e.ErrorCode, e.Message, e.Span.FileName, e.Span.StartLine, e.Span.StartColumn)
	}
	return fmt.Sprintf("compiler %s %d: %s", e.Severity, e.ErrorCode, e.Message)
}

// ProcessError is returned when the sandboxed process failed and no structured
// error could be recovered from its output.
type ProcessError struct {
	ExitCode int
	StdErr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("compiler process exited with code %d: %s", e.ExitCode, e.StdErr)
}
