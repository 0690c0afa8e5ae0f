package types

import "iter"

// Dictionary provides the term operations shared by the in-memory store and
// the persistent backend. Implementations keep terms unique and yield them in
// ascending ordinal order.
type Dictionary interface {
	// Add inserts a new term. Returns ErrTermExists if the term is present,
	// ErrInvalidTerm or ErrInvalidExplanation if a value cannot be stored.
	Add(term, explanation string) error

	// Update replaces the explanation of an existing term.
	// Returns ErrTermNotFound if the term is absent.
	Update(term, explanation string) error

	// Remove deletes a term. Returns ErrTermNotFound if the term is absent.
	Remove(term string) error

	// Lookup returns the entry for term. Returns ErrTermNotFound if absent.
	Lookup(term string) (Entry, error)

	// Contains reports whether term is present.
	Contains(term string) bool

	// All yields the entries in ascending term order as of the call.
	All() iter.Seq[Entry]

	// Len returns the number of entries.
	Len() int
}
