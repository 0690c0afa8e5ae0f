package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexicon/pkg/lexicon"
)

const modulePath = "github.com/mesh-intelligence/lexicon"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lexicon version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "lexicon v%s\nmodule: %s\n", lexicon.Version, modulePath)
			return nil
		},
	}
}
