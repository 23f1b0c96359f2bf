package cli

import (
	"fmt"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var patternsFormat string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the selectable adjacency patterns",
	Long: `List the source-to-target speech-act patterns that analyze and explore
accept. Patterns can be selected by key (Q-I) or by full label.

Examples:
  commnet patterns
  commnet patterns --format yaml`,
	Args: cobra.NoArgs,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVarP(&patternsFormat, "format", "f", "text", "output format (text, yaml)")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	patterns := analysis.Patterns()
	out := cmd.OutOrStdout()

	switch patternsFormat {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(patterns); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return fmt.Errorf("unknown format %q", patternsFormat)
	}

	def := analysis.Resolve(cfg.DefaultPattern)
	fmt.Fprintf(out, "Patterns (%d):\n\n", len(patterns))
	for _, p := range patterns {
		mark := ""
		if p.Key == def.Key {
			mark = " (default)"
		}
		fmt.Fprintf(out, "- %-4s %s%s\n", p.Key, p.Label, mark)
	}
	return nil
}
