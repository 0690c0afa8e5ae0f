// Package paths resolves where Lexicon keeps its configuration and its data
// directory, and names the files inside them.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "lexicon"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".lexicon-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LEXICON_CONFIG_DIR"
	EnvDataDir   = "LEXICON_DATA_DIR"
)

// File names inside the configuration and data directories.
const (
	ConfigFileName   = "config.yaml"
	TermsFileName    = "terms.txt"
	DatabaseFileName = "lexicon.db"
)

// lookups are swapped in tests.
var (
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
)

// DefaultConfigDir returns the platform configuration directory for Lexicon.
//
// Linux:   $XDG_CONFIG_HOME/lexicon (fallback ~/.config/lexicon)
// macOS:   ~/Library/Application Support/lexicon
// Windows: %APPDATA%/lexicon
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory, taking the first of:
// flag, $LEXICON_CONFIG_DIR, DefaultConfigDir(). Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if p := firstNonEmpty(flag, os.Getenv(EnvConfigDir)); p != "" {
		return filepath.Abs(p)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory, taking the first of: flag,
// data_dir from config.yaml, $LEXICON_DATA_DIR, $(CWD)/.lexicon-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if p := firstNonEmpty(flag, configValue, os.Getenv(EnvDataDir)); p != "" {
		return filepath.Abs(p)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// TermsFile returns the path of the terms file inside dataDir.
func TermsFile(dataDir string) string {
	return filepath.Join(dataDir, TermsFileName)
}

// DatabaseFile returns the path of the SQLite database inside dataDir.
func DatabaseFile(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFileName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
