package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	analyzePattern string
	analyzeFrom    string
	analyzeTo      string
	analyzeFormat  string
	analyzeLimit   int
	analyzeStats   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <matchID>",
	Short: "Analyse one match over a time window",
	Long: `Load a match, find the adjacency pattern, aggregate role centrality
and fetch the precise density for a window of the match.

--from and --to accept m:ss or whole seconds and default to the full match.

Examples:
  commnet analyze 12
  commnet analyze 12 --pattern D-C --from 5:00 --to 10:30
  commnet analyze 12 --pattern ALL --format json
  commnet analyze 12 --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzePattern, "pattern", "p", "", "pattern key or label (default: configured default)")
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "window start (m:ss)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "window end (m:ss)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format (text, json, yaml)")
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "n", 20, "max matched utterances to list (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeStats, "stats", false, "include fetch statistics")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || matchID <= 0 {
		return fmt.Errorf("invalid match id %q", args[0])
	}
	switch analyzeFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}
	pattern, err := resolvePattern(analyzePattern)
	if err != nil {
		return err
	}

	sess := newSession(pattern)
	defer sess.Close()

	if err := sess.SelectMatch(matchID); err != nil {
		return err
	}
	snap, err := sess.WaitSettled(ctx)
	if err != nil {
		return fmt.Errorf("load match %d: %w", matchID, err)
	}
	if snap.Match == nil {
		if snap.MatchErr != nil {
			return fmt.Errorf("load match %d: %w", matchID, snap.MatchErr)
		}
		return fmt.Errorf("load match %d: no data", matchID)
	}

	if analyzeFrom != "" || analyzeTo != "" {
		w, err := windowFromFlags(analyzeFrom, analyzeTo, snap.Duration)
		if err != nil {
			return err
		}
		if err := sess.SetWindow(w); err != nil {
			return err
		}
		if snap, err = sess.WaitSettled(ctx); err != nil {
			return fmt.Errorf("analyse window: %w", err)
		}
	}

	report := buildReport(snap, analyzeLimit)
	if analyzeStats {
		stats := collector.Snapshot()
		report.Stats = &stats
	}

	out := cmd.OutOrStdout()
	switch analyzeFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	renderText(out, report, themeFor(os.Stdout), terminalWidth(os.Stdout, 80))
	return nil
}

// windowFromFlags builds a closed window from clock flags. Missing bounds
// default to the start and end of the match.
func windowFromFlags(from, to string, duration int64) (models.TimeWindow, error) {
	start, end := int64(0), duration
	if from != "" {
		ms, err := models.ParseClock(from)
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("--from: %w", err)
		}
		start = ms
	}
	if to != "" {
		ms, err := models.ParseClock(to)
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("--to: %w", err)
		}
		end = ms
	}

	w := models.Window(start, end)
	if !w.Valid() {
		return w, fmt.Errorf("window %s is empty or inverted", w)
	}
	return w, nil
}
