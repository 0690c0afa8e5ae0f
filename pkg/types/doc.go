// Package types defines the Dictionary and Backend interfaces, the Entry
// record, configuration, and the standard error values shared by the
// Lexicon term store, its SQLite backend, and the command-line front end.
package types
