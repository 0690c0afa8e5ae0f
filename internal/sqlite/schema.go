// Package sqlite implements the SQLite backend for the Lexicon dictionary.
// The terms file in the data directory is the source of truth; SQLite is a
// query engine rebuilt from it on every Attach.
package sqlite

// Schema DDL.
const (
	createTerms = `CREATE TABLE terms (
    term TEXT PRIMARY KEY,
    explanation TEXT NOT NULL
);`

	// Supports explanation substring search ordering by term.
	idxTermsExplanation = `CREATE INDEX idx_terms_explanation ON terms(explanation);`
)

// schemaDDL lists the statements executed against a fresh database.
var schemaDDL = []string{
	createTerms,
	idxTermsExplanation,
}
