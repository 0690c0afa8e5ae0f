package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/lexicon/internal/tui"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

var errNotTerminal = errors.New("browse requires an interactive terminal")

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newBrowseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit the dictionary interactively",
		Long: `Browse opens a full-screen table of all terms.

Keys:
  /        filter terms and explanations
  a        add a term
  u        update the selected term
  d        delete the selected term (confirm with y)
  i        replace the dictionary from a terms file
  e        export the dictionary to a terms file
  esc      cancel
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errNotTerminal
			}
			return e.withBackend(func(b types.Backend) error {
				p := tea.NewProgram(tui.New(b), tea.WithAltScreen())
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("run browser: %w", err)
				}
				return nil
			})
		},
	}
}
