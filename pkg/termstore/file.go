package termstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// LoadFile opens path and parses it with Load. The file is closed on every
// return path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// SaveFile atomically writes the store to path using the temp-file, fsync,
// rename pattern. The previous content of path survives any failure.
func (s *Store) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".terms-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", types.ErrIO, err)
	}
	tmpName := tmp.Name()

	if err := s.Save(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %w", types.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %w", types.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %w", types.ErrIO, err)
	}
	return nil
}

// ExportFile writes the entries of d to path the way SaveFile does.
func ExportFile(d types.Dictionary, path string) error {
	s := New()
	for e := range d.All() {
		if err := s.Add(e.Term, e.Explanation); err != nil {
			return err
		}
	}
	return s.SaveFile(path)
}
