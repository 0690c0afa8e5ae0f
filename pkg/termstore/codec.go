package termstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// MaxLineSize bounds a single line of a terms file.
const MaxLineSize = 1 << 20

// Load parses a terms file into a new Store.
//
// Each line holds one entry: the term, a comma, and the explanation. The
// line is split at the first comma, so explanations may contain commas.
// A trailing carriage return is dropped. Any malformed line (no comma, empty
// term, repeated term, over-long line) fails the whole load with a
// *types.FormatError and no Store is returned. Reader failures wrap
// types.ErrIO.
func Load(r io.Reader) (*Store, error) {
	s := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")

		term, explanation, ok := strings.Cut(text, ",")
		if !ok {
			return nil, &types.FormatError{Line: line, Reason: "missing comma separator"}
		}
		if err := types.ValidateTerm(term); err != nil {
			return nil, &types.FormatError{Line: line, Reason: err.Error(), Err: err}
		}
		if err := types.ValidateExplanation(explanation); err != nil {
			return nil, &types.FormatError{Line: line, Reason: err.Error(), Err: err}
		}

		// Sorted input appends in place; anything else goes through Add.
		if n := len(s.entries); n == 0 || strings.Compare(s.entries[n-1].Term, term) < 0 {
			s.entries = append(s.entries, types.Entry{Term: term, Explanation: explanation})
			continue
		}
		if err := s.Add(term, explanation); err != nil {
			return nil, &types.FormatError{Line: line, Reason: fmt.Sprintf("duplicate term %q", term), Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &types.FormatError{Line: line + 1, Reason: fmt.Sprintf("line longer than %d bytes", MaxLineSize), Err: err}
		}
		return nil, fmt.Errorf("%w: reading terms: %w", types.ErrIO, err)
	}
	return s, nil
}

// Save writes every entry to w as "term,explanation\n" in ascending term
// order. Only failures of w are reported, wrapped with types.ErrIO.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range s.entries {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", e.Term, e.Explanation); err != nil {
			return fmt.Errorf("%w: writing term %q: %w", types.ErrIO, e.Term, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flushing terms: %w", types.ErrIO, err)
	}
	return nil
}
