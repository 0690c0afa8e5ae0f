// Package termstore implements the in-memory ordered term dictionary and its
// line-oriented terms file format.
//
// A Store keeps entries sorted by term in ordinal order, so iteration and
// export need no extra sorting. A Store is not safe for concurrent use; hosts
// that share one across goroutines must serialise access.
package termstore

import (
	"iter"
	"slices"
	"strings"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

var _ types.Dictionary = (*Store)(nil)

// Store is an ordered map from term to explanation.
type Store struct {
	entries []types.Entry // sorted by Term, unique
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// find returns the index of term, or the index where it would be inserted.
func (s *Store) find(term string) (int, bool) {
	return slices.BinarySearchFunc(s.entries, term, func(e types.Entry, t string) int {
		return strings.Compare(e.Term, t)
	})
}

// Add inserts a new term. The store is unchanged on error.
func (s *Store) Add(term, explanation string) error {
	if err := types.ValidateTerm(term); err != nil {
		return err
	}
	if err := types.ValidateExplanation(explanation); err != nil {
		return err
	}
	i, found := s.find(term)
	if found {
		return &types.TermError{Op: "add", Term: term, Err: types.ErrTermExists}
	}
	s.entries = slices.Insert(s.entries, i, types.Entry{Term: term, Explanation: explanation})
	return nil
}

// Update replaces the explanation of an existing term.
func (s *Store) Update(term, explanation string) error {
	i, found := s.find(term)
	if !found {
		return &types.TermError{Op: "update", Term: term, Err: types.ErrTermNotFound}
	}
	if err := types.ValidateExplanation(explanation); err != nil {
		return err
	}
	s.entries[i].Explanation = explanation
	return nil
}

// Remove deletes a term.
func (s *Store) Remove(term string) error {
	i, found := s.find(term)
	if !found {
		return &types.TermError{Op: "remove", Term: term, Err: types.ErrTermNotFound}
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return nil
}

// Lookup returns the entry for term. Matching is exact and case-sensitive.
func (s *Store) Lookup(term string) (types.Entry, error) {
	i, found := s.find(term)
	if !found {
		return types.Entry{}, &types.TermError{Op: "lookup", Term: term, Err: types.ErrTermNotFound}
	}
	return s.entries[i], nil
}

// Contains reports whether term is present.
func (s *Store) Contains(term string) bool {
	_, found := s.find(term)
	return found
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// All returns a sequence over the entries in ascending term order. The
// sequence iterates a snapshot taken when All is called, so mutating the
// store while ranging over it is safe and does not affect the sequence.
// Call All again to observe later changes.
func (s *Store) All() iter.Seq[types.Entry] {
	snapshot := slices.Clone(s.entries)
	return func(yield func(types.Entry) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns a copy of all entries in ascending term order.
func (s *Store) Entries() []types.Entry {
	return slices.Clone(s.entries)
}
