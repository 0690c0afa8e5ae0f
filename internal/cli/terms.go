package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <term> <explanation...>",
		Short: "Add a new term",
		Long: `Add inserts a term with its explanation. The explanation arguments are
joined with single spaces. Adding a term that already exists fails.

Example:
  lexicon add TCP Transmission Control Protocol`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, explanation := args[0], strings.Join(args[1:], " ")
			return e.withBackend(func(b types.Backend) error {
				if err := b.Add(term, explanation); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", term)
				return nil
			})
		},
	}
}

func newUpdateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "update <term> <explanation...>",
		Short: "Replace the explanation of a term",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, explanation := args[0], strings.Join(args[1:], " ")
			return e.withBackend(func(b types.Backend) error {
				if err := b.Update(term, explanation); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", term)
				return nil
			})
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <term>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a term",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]
			return e.withBackend(func(b types.Backend) error {
				if err := b.Remove(term); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", term)
				return nil
			})
		},
	}
}

func newGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <term>",
		Short: "Show the explanation of a term",
		Long: `Get prints "term - explanation" for one term. The match is exact and
case-sensitive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withBackend(func(b types.Backend) error {
				entry, err := b.Lookup(args[0])
				if err != nil {
					return err
				}
				if e.jsonMode {
					return writeJSON(cmd.OutOrStdout(), entry)
				}
				fmt.Fprintln(cmd.OutOrStdout(), entry)
				return nil
			})
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all terms in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withBackend(func(b types.Backend) error {
				entries := make([]types.Entry, 0, b.Len())
				for entry := range b.All() {
					entries = append(entries, entry)
				}
				return e.printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
}

func newSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find terms whose term or explanation contains text",
		Long: `Search matches text as a substring of the term or the explanation,
ignoring ASCII case. Results are ordered by term.

Example:
  lexicon search protocol`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withBackend(func(b types.Backend) error {
				entries, err := b.Search(args[0])
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []types.Entry{}
				}
				return e.printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
}

// printEntries writes entries as "term - explanation" lines or, in JSON
// mode, as an indented JSON array.
func (e *env) printEntries(w io.Writer, entries []types.Entry) error {
	if e.jsonMode {
		return writeJSON(w, entries)
	}
	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
