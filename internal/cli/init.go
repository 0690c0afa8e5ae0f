package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lexicon/internal/paths"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	SyncStrategy string `yaml:"sync_strategy"`
	LogLevel     string `yaml:"log_level"`
}

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize lexicon storage",
		Long:  "Create the configuration and data directories, write config.yaml if missing, then initialize the dictionary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, e)
		},
	}
}

func runInit(cmd *cobra.Command, e *env) error {
	if err := os.MkdirAll(e.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// config.yaml outlives this working directory, so store an absolute path.
	dataDir := e.dataDir
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		dataDir = abs
	}

	configPath := paths.ConfigFile(e.configDir)
	written, err := writeConfigIfMissing(configPath, dataDir)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if written {
		// Pick up the file just written so data_dir from it applies.
		if e.config, err = loadConfig(e.configDir); err != nil {
			return err
		}
	}

	// Attach then Detach creates the data directory and its files.
	err = e.withBackend(func(b types.Backend) error { return nil })
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Lexicon initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := configFile{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: types.SyncImmediate,
		LogLevel:     defaultLogLevel,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
