package types

import (
	"errors"
	"fmt"
)

// Dictionary operation errors. Callers match them with errors.Is; the
// concrete values returned by stores are *TermError or *FormatError.
var (
	ErrTermExists         = errors.New("term already exists")
	ErrTermNotFound       = errors.New("term does not exist")
	ErrInvalidTerm        = errors.New("invalid term")
	ErrInvalidExplanation = errors.New("invalid explanation")
	ErrInvalidFormat      = errors.New("invalid file format")
	ErrIO                 = errors.New("i/o failure")
)

// TermError records a dictionary operation that failed because of the
// presence or absence of a term.
type TermError struct {
	Op   string // add, update, remove, lookup
	Term string
	Err  error // ErrTermExists or ErrTermNotFound
}

func (e *TermError) Error() string {
	switch e.Err {
	case ErrTermExists:
		return fmt.Sprintf("term %q already exists", e.Term)
	case ErrTermNotFound:
		return fmt.Sprintf("term %q does not exist", e.Term)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Term, e.Err)
}

func (e *TermError) Unwrap() error { return e.Err }

// FormatError reports a malformed line in a terms file. Line is 1-based.
// Err optionally carries the underlying cause (for example ErrTermExists
// for a repeated term); FormatError always matches ErrInvalidFormat.
type FormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", ErrInvalidFormat, e.Line, e.Reason)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.Err}
}

// IsUserError reports whether err is caused by caller input rather than the
// environment: a duplicate or missing term, an unrepresentable value, or a
// malformed terms file.
func IsUserError(err error) bool {
	return errors.Is(err, ErrTermExists) ||
		errors.Is(err, ErrTermNotFound) ||
		errors.Is(err, ErrInvalidTerm) ||
		errors.Is(err, ErrInvalidExplanation) ||
		errors.Is(err, ErrInvalidFormat)
}
