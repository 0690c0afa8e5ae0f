package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"iter"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lexicon/internal/paths"
	"github.com/mesh-intelligence/lexicon/pkg/termstore"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend with an in-memory termstore.Store for
// lookups and ordering, SQLite for search, and the terms file as the
// durable copy.
type Backend struct {
	mu       sync.Mutex
	attached bool
	db       *sql.DB
	store    *termstore.Store

	termsPath    string
	syncStrategy string // immediate or on_close
	dirty        bool   // terms file is behind the store

	baseLogger *zap.Logger
	logger     *zap.Logger // baseLogger with the session field
}

// NewBackend creates a new SQLite backend instance. A nil logger discards
// log output. The backend is not attached; call Attach with a Config.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{baseLogger: logger, logger: logger}
}

// Attach loads the terms file from config.DataDir into memory and rebuilds
// the SQLite database from it. A malformed terms file fails Attach and
// leaves the backend detached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	termsPath := paths.TermsFile(dataDir)
	if err := ensureTermsFile(termsPath); err != nil {
		return err
	}
	store, err := termstore.LoadFile(termsPath)
	if err != nil {
		return err
	}

	// The database is derived state; start from a fresh file every time.
	dbPath := paths.DatabaseFile(dataDir)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := replaceTerms(db, store.Entries()); err != nil {
		db.Close()
		return fmt.Errorf("load terms: %w", err)
	}

	b.db = db
	b.store = store
	b.termsPath = termsPath
	b.syncStrategy = config.GetSyncStrategy()
	b.dirty = false
	b.logger = b.baseLogger.With(zap.String("session", newSessionID()))
	b.attached = true

	b.logger.Info("dictionary attached",
		zap.String("data_dir", dataDir),
		zap.String("sync_strategy", b.syncStrategy),
		zap.Int("terms", store.Len()))
	return nil
}

// Detach writes any pending changes to the terms file and closes the
// database. Detach is idempotent. If the final write fails the backend stays
// attached so the caller can retry.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.store = nil
	b.attached = false

	b.logger.Info("dictionary detached")
	b.logger = b.baseLogger
	return nil
}

// Add inserts a new term.
func (b *Backend) Add(term, explanation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	if err := b.store.Add(term, explanation); err != nil {
		return err
	}
	if _, err := b.db.Exec("INSERT INTO terms (term, explanation) VALUES (?, ?)", term, explanation); err != nil {
		_ = b.store.Remove(term)
		return fmt.Errorf("inserting term %q: %w", term, err)
	}
	b.logger.Debug("term added", zap.String("term", term))
	return b.commitLocked(func() error {
		_ = b.store.Remove(term)
		_, err := b.db.Exec("DELETE FROM terms WHERE term = ?", term)
		return err
	})
}

// Update replaces the explanation of an existing term.
func (b *Backend) Update(term, explanation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	old, err := b.store.Lookup(term)
	if err != nil {
		return &types.TermError{Op: "update", Term: term, Err: types.ErrTermNotFound}
	}
	if err := b.store.Update(term, explanation); err != nil {
		return err
	}
	if _, err := b.db.Exec("UPDATE terms SET explanation = ? WHERE term = ?", explanation, term); err != nil {
		_ = b.store.Update(term, old.Explanation)
		return fmt.Errorf("updating term %q: %w", term, err)
	}
	b.logger.Debug("term updated", zap.String("term", term))
	return b.commitLocked(func() error {
		_ = b.store.Update(term, old.Explanation)
		_, err := b.db.Exec("UPDATE terms SET explanation = ? WHERE term = ?", old.Explanation, term)
		return err
	})
}

// Remove deletes a term.
func (b *Backend) Remove(term string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	old, err := b.store.Lookup(term)
	if err != nil {
		return &types.TermError{Op: "remove", Term: term, Err: types.ErrTermNotFound}
	}
	if err := b.store.Remove(term); err != nil {
		return err
	}
	if _, err := b.db.Exec("DELETE FROM terms WHERE term = ?", term); err != nil {
		_ = b.store.Add(old.Term, old.Explanation)
		return fmt.Errorf("deleting term %q: %w", term, err)
	}
	b.logger.Debug("term removed", zap.String("term", term))
	return b.commitLocked(func() error {
		_ = b.store.Add(old.Term, old.Explanation)
		_, err := b.db.Exec("INSERT INTO terms (term, explanation) VALUES (?, ?)", old.Term, old.Explanation)
		return err
	})
}

// Lookup returns the entry for term.
func (b *Backend) Lookup(term string) (types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Entry{}, types.ErrDetached
	}
	return b.store.Lookup(term)
}

// Contains reports whether term is present. A detached backend contains
// nothing.
func (b *Backend) Contains(term string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.attached && b.store.Contains(term)
}

// All yields the entries in ascending term order as of the call.
func (b *Backend) All() iter.Seq[types.Entry] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return func(func(types.Entry) bool) {}
	}
	return b.store.All()
}

// Len returns the number of entries, zero when detached.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0
	}
	return b.store.Len()
}

// Import replaces the dictionary with the terms read from r. The input is
// parsed completely before anything changes; a malformed input, a failed
// database rebuild, or a failed write of the terms file leaves the dictionary
// as it was.
func (b *Backend) Import(r io.Reader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	store, err := termstore.Load(r)
	if err != nil {
		return err
	}
	if err := replaceTerms(b.db, store.Entries()); err != nil {
		return err
	}
	prev := b.store
	b.store = store
	b.logger.Info("dictionary imported", zap.Int("terms", store.Len()))
	return b.commitLocked(func() error {
		b.store = prev
		return replaceTerms(b.db, prev.Entries())
	})
}

// Export writes every entry to w in the terms file format.
func (b *Backend) Export(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	return b.store.Save(w)
}

// commitLocked persists a mutation that is already applied to the store and
// the database. If the terms file cannot be written, undo reverts both and
// the error is returned, so a failed call leaves the dictionary unchanged.
// The caller must hold b.mu.
func (b *Backend) commitLocked(undo func() error) error {
	err := b.persistLocked()
	if err == nil {
		return nil
	}
	if uerr := undo(); uerr != nil {
		b.logger.Error("reverting database after failed persist", zap.Error(uerr))
	}
	b.dirty = false
	return err
}

// persistLocked writes the terms file now (immediate) or marks it for
// Detach (on_close). The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	b.dirty = true
	if b.syncStrategy == types.SyncOnClose {
		return nil
	}
	return b.flushLocked()
}

// flushLocked writes the terms file if it is behind the store. On failure
// the file keeps its previous content and dirty stays set, so the next
// mutation or Detach retries. The caller must hold b.mu.
func (b *Backend) flushLocked() error {
	if !b.dirty {
		return nil
	}
	if err := b.store.SaveFile(b.termsPath); err != nil {
		b.logger.Warn("persisting terms failed", zap.String("path", b.termsPath), zap.Error(err))
		return fmt.Errorf("persisting %s: %w", paths.TermsFileName, err)
	}
	b.dirty = false
	b.logger.Debug("terms persisted", zap.String("path", b.termsPath), zap.Int("terms", b.store.Len()))
	return nil
}

// newSessionID generates a UUID v7 that tags the log lines of one
// attachment.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
