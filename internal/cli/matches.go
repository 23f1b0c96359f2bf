package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches on the analysis server",
	Long: `List all matches known to the analysis server.

Examples:
  commnet matches
  commnet matches --api http://analysis:8080`,
	Args: cobra.NoArgs,
	RunE: runMatches,
}

func runMatches(cmd *cobra.Command, args []string) error {
	matches, err := apiClient.ListMatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}

	fmt.Fprintf(out, "Matches (%d):\n\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(out, "- #%d %s\n", m.ID, m.Code)
	}
	return nil
}
