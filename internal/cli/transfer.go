package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexicon/pkg/termstore"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dictionary with the terms in a file",
		Long: `Import reads a terms file (one "term,explanation" per line) and
replaces the whole dictionary with its contents. A malformed file is
rejected and the dictionary is left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
			}
			defer f.Close()

			return e.withBackend(func(b types.Backend) error {
				if err := b.Import(f); err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d terms\n", b.Len())
				return nil
			})
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the dictionary to a file",
		Long: `Export writes every term in ascending order, one "term,explanation"
per line. Use "-" to write to standard output. The target file is
replaced atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return e.withBackend(func(b types.Backend) error {
				if path == "-" {
					return b.Export(cmd.OutOrStdout())
				}
				return termstore.ExportFile(b, path)
			})
		},
	}
}
