package types

import (
	"errors"
	"io"
)

// Backend is a Dictionary bound to a data directory. Callers attach to a
// backend, use it as a Dictionary, and detach when done.
type Backend interface {
	Dictionary

	// Attach loads the dictionary from the data directory described by
	// config. Creates the DataDir if it does not exist. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases backend resources.
	// Idempotent: multiple calls succeed.
	Detach() error

	// Search returns entries whose term or explanation contains text,
	// ignoring ASCII case, in ascending term order.
	Search(text string) ([]Entry, error)

	// Import replaces the whole dictionary with the terms read from r.
	// On any error the dictionary is left unchanged.
	Import(r io.Reader) error

	// Export writes every entry to w in the terms file format.
	Export(w io.Writer) error
}

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("dictionary is detached")
	ErrAlreadyAttached = errors.New("dictionary is already attached")
)
