// Package cli implements the lexicon command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexicon/internal/paths"
	"github.com/mesh-intelligence/lexicon/pkg/sqlite"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// env carries global flag values and the per-invocation dependencies that
// command handlers need. One env is created per root command.
type env struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool

	// started is set once argument parsing succeeded and the command began
	// running; errors before that point are usage errors.
	started bool

	config *viper.Viper
	logger *zap.Logger
}

// NewRootCmd creates the top-level "lexicon" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "lexicon",
		Short: "A term and explanation dictionary",
		Long: "Lexicon keeps an ordered dictionary of terms and their explanations\n" +
			"in a local data directory, with text import and export.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
	}

	root.PersistentFlags().StringVar(&e.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&e.dataDir, "data-dir", "", "data directory (default: .lexicon-db)")
	root.PersistentFlags().BoolVar(&e.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(e))
	root.AddCommand(newAddCmd(e))
	root.AddCommand(newUpdateCmd(e))
	root.AddCommand(newRemoveCmd(e))
	root.AddCommand(newGetCmd(e))
	root.AddCommand(newListCmd(e))
	root.AddCommand(newSearchCmd(e))
	root.AddCommand(newImportCmd(e))
	root.AddCommand(newExportCmd(e))
	root.AddCommand(newBrowseCmd(e))

	return root
}

// Execute runs the root command against the process arguments and returns
// the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	e := &env{}
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if e.logger != nil {
		_ = e.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "lexicon: %v\n", err)
	}
	return exitCode(e, err)
}

// exitCode maps a command error to a process exit code.
func exitCode(e *env, err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case !e.started, types.IsUserError(err), errors.Is(err, errNotTerminal):
		return exitUserError
	}
	return exitSysError
}

// setup resolves the configuration directory, reads config.yaml, and builds
// the logger.
func (e *env) setup() error {
	e.started = true

	configDir, err := paths.ResolveConfigDir(e.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	e.configDir = configDir

	e.config, err = loadConfig(configDir)
	if err != nil {
		return err
	}

	e.logger, err = newLogger(e.config.GetString(cfgKeyLogLevel), e.verbose)
	if err != nil {
		return err
	}
	e.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", e.config.ConfigFileUsed()))
	return nil
}

// backendConfig builds the Attach configuration from flags and config.yaml.
func (e *env) backendConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(e.dataDir, e.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:      e.config.GetString(cfgKeyBackend),
		DataDir:      dataDir,
		SyncStrategy: e.config.GetString(cfgKeySyncStrategy),
	}, nil
}

// withBackend attaches a backend for the duration of fn. A Detach failure is
// reported only when fn succeeded.
func (e *env) withBackend(fn func(b types.Backend) error) (err error) {
	cfg, err := e.backendConfig()
	if err != nil {
		return err
	}

	b := sqlite.NewBackend(e.logger)
	if err := b.Attach(cfg); err != nil {
		return fmt.Errorf("attach dictionary: %w", err)
	}
	defer func() {
		if derr := b.Detach(); derr != nil && err == nil {
			err = fmt.Errorf("detach dictionary: %w", derr)
		}
	}()

	return fn(b)
}
