// Package sqlite provides the public API for the SQLite dictionary backend.
// This package exposes the factory function while keeping implementation
// details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexicon/internal/sqlite"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// NewBackend creates a new SQLite backend instance. A nil logger discards
// log output. The backend is not attached; call Attach with a Config.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".lexicon-db",
//	})
//	defer backend.Detach()
//	err = backend.Add("Moti", "Azran")
func NewBackend(logger *zap.Logger) types.Backend {
	return sqlite.NewBackend(logger)
}
