package rdfkit

import (
	"errors"
	"strings"
)

// Error is the rdfkit error domain type.
//
// Errors coming from rdfkit components should be able to be inspected as
// ([errors.As]) an *Error at some point in the error chain.
//
// Implementers of store backends should create an Error at the system
// boundary (e.g. when using a database client) and intermediate layers
// should not wrap in another Error except to add additional [ErrorKind]
// information. That is to say, use [fmt.Errorf] with a "%w" verb in
// preference to creating a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

// Assert this implements all the cool features.
var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrInternal,
		ErrInvalid,
		ErrPrecondition,
		ErrTransient,
		ErrPermanent:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Op == "" && e.Message == "" {
		b.Reset()
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
//
// It compares the error kind. Callers should compare against a declared
// [ErrorKind] over a specific error.
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors to be checked against.
//
// If an error is unsure which kind to use, ErrInternal should be used.
type ErrorKind string

// Defined error kinds.
var (
	// ErrInternal is an invariant violation inside a component.
	ErrInternal = ErrorKind("internal")
	// ErrInvalid means the input was invalid, such as a malformed
	// configuration value.
	ErrInvalid = ErrorKind("invalid")
	// ErrPrecondition means some prerequisite was not satisfied, such as a
	// backend being unreachable.
	ErrPrecondition = ErrorKind("precondition")
	// ErrTransient is an error that may resolve itself if retried.
	ErrTransient = ErrorKind("transient")
	// ErrPermanent is an error that will not resolve on retry.
	ErrPermanent = ErrorKind("permanent")
)

// Error implements error.
func (k ErrorKind) Error() string { return string(k) }
