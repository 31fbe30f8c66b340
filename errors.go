package packster

import (
	"errors"
	"strings"
)

// Error is the packster error domain type.
//
// Errors coming from packster components should be able to be inspected
// as ([errors.As]) an *Error at some point in the error chain.
//
// Components should create an Error at the system boundary (reading the
// registry file, invoking a package manager CLI) and intermediate layers
// should wrap with [fmt.Errorf] and a "%w" verb rather than creating a
// containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

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
	case ErrConfiguration,
		ErrCheck,
		ErrInvalid,
		ErrInternal:
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
	// ErrConfiguration means a malformed registry or configuration
	// source. Fatal: a corrupt registry can't be read as "empty".
	ErrConfiguration = ErrorKind("configuration")
	// ErrCheck means an existence check against the target platform
	// failed to run. Recovered locally by treating the candidate as not
	// found; never propagated out of the mapper.
	ErrCheck = ErrorKind("check")
	// ErrInvalid means an invalid argument or record.
	ErrInvalid = ErrorKind("invalid")
	// ErrInternal is a non-specific internal error.
	ErrInternal = ErrorKind("internal")
)

// Error implements error.
func (e ErrorKind) Error() string {
	return string(e)
}
