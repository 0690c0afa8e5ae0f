package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// initSchema executes schemaDDL against a fresh database.
func initSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema: %w", err)
		}
	}
	return nil
}

// ensureTermsFile creates an empty terms file if none exists.
func ensureTermsFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return f.Close()
}

// replaceTerms swaps the contents of the terms table for entries inside a
// single transaction. On error the table keeps its previous rows.
func replaceTerms(db *sql.DB, entries []types.Entry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM terms"); err != nil {
		return fmt.Errorf("clearing terms: %w", err)
	}
	if err := insertEntries(tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertEntries inserts entries with one prepared statement.
func insertEntries(tx *sql.Tx, entries []types.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.Prepare("INSERT INTO terms (term, explanation) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Term, e.Explanation); err != nil {
			return fmt.Errorf("inserting term %q: %w", e.Term, err)
		}
	}
	return nil
}
