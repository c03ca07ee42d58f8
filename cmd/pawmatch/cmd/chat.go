package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive search session",
		Long: `Start an interactive session on stdin. Each line is one search
turn; facets accumulate until you drop them ("remove state", "no more
poodle") or reset.

Commands inside the session:
  /reset   drop all accumulated facets
  /quit    leave the session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := buildApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Tell me about the pet you're looking for. /reset starts over, /quit leaves.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "/quit", "/exit":
					return nil
				case "/reset":
					app.engine.Reset(sessionID)
					fmt.Fprintln(out, "Fresh start. What are you looking for?")
					continue
				}

				resp, err := app.engine.Search(cmd.Context(), sessionID, line)
				if err != nil {
					return err
				}
				printResponse(out, resp)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "default", "Session ID to resume")

	return cmd
}
