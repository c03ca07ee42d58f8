package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var sessionID string
	var format string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one conversational search turn",
		Long: `Run a single search turn against the inventory.

With --session, facets accumulate across invocations the same way
they do in chat: a later "make it female" narrows the earlier query.

Examples:
  pawmatch search "a young female poodle in johor"
  pawmatch search "vaccinated please" --session s1
  pawmatch search "a cheap cat" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			app, err := buildApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.engine.Search(cmd.Context(), sessionID, query)
			if err != nil {
				return err
			}

			if format == "json" {
				return printResponseJSON(cmd.OutOrStdout(), resp)
			}
			if format != "text" {
				return fmt.Errorf("unknown format %q: use text or json", format)
			}
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "default", "Session ID for facet accumulation")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}
