// Package cmd provides the CLI commands for PawMatch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pawmatch/pawmatch/pkg/version"
)

// NewRootCmd creates the root command for the pawmatch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pawmatch",
		Short: "Conversational search over a pet adoption inventory",
		Long: `PawMatch answers free-text adoption queries ("a young female poodle
in johor, vaccinated please") with ranked matches from a CSV inventory.

Facet extraction merges a rule parser with an optional NER service,
constraints accumulate across turns within a session, and retrieval
combines BM25 with embedding similarity. Hard constraints relax
gradually when too few pets match; what you asked for is never
silently dropped from the reply status.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("pawmatch version {{.Version}}\n")

	cmd.PersistentFlags().String("data", "", "Path to the inventory CSV (overrides config)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
