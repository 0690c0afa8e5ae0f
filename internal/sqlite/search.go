package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// likeEscaper escapes the LIKE wildcards and the escape character itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the entries whose term or explanation contains text. The
// match ignores ASCII case (SQLite LIKE semantics); results are ordered by
// term. An empty text matches every entry.
func (b *Backend) Search(text string) ([]types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	pattern := "%" + likeEscaper.Replace(text) + "%"
	rows, err := b.db.Query(
		`SELECT term, explanation FROM terms
		 WHERE term LIKE ? ESCAPE '\' OR explanation LIKE ? ESCAPE '\'
		 ORDER BY term`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching terms: %w", err)
	}
	defer rows.Close()

	var results []types.Entry
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.Term, &e.Explanation); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terms: %w", err)
	}
	return results, nil
}
