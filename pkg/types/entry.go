package types

import (
	"fmt"
	"strings"
)

// Entry is a single dictionary record: a unique term and its explanation.
// Two entries are the same entry when their terms are equal; ordering is
// ordinal over Term.
type Entry struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// String renders the entry the way the front ends display it.
func (e Entry) String() string {
	return fmt.Sprintf("%s - %s", e.Term, e.Explanation)
}

// Compare orders entries by term using byte-wise comparison, which for valid
// UTF-8 is code point order.
func (e Entry) Compare(other Entry) int {
	return strings.Compare(e.Term, other.Term)
}

// ValidateTerm reports whether term can be stored and written to a terms
// file. Terms must be non-empty and must not contain the field separator or
// a line break.
func ValidateTerm(term string) error {
	if term == "" {
		return fmt.Errorf("%w: term must not be empty", ErrInvalidTerm)
	}
	if strings.ContainsRune(term, ',') {
		return fmt.Errorf("%w: term %q contains a comma", ErrInvalidTerm, term)
	}
	if strings.ContainsAny(term, "\r\n") {
		return fmt.Errorf("%w: term %q contains a line break", ErrInvalidTerm, term)
	}
	return nil
}

// ValidateExplanation reports whether explanation fits on a single line of a
// terms file. Commas are allowed.
func ValidateExplanation(explanation string) error {
	if strings.ContainsAny(explanation, "\r\n") {
		return fmt.Errorf("%w: explanation contains a line break", ErrInvalidExplanation)
	}
	return nil
}
