// Package cli provides the command-line interface for commnet.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/client"
	"github.com/raphaelgruber/commnet/internal/config"
	"github.com/raphaelgruber/commnet/internal/metrics"
	"github.com/raphaelgruber/commnet/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	apiURL  string

	// Global config, logger and API client
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	apiClient  *client.Client
	collector  *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "commnet",
	Short: "Conversational network analysis for game voice logs",
	Long: `Commnet analyses speech-act annotated voice logs of team matches.

It lists and uploads matches on the analysis server, finds adjacency
patterns such as Question followed by Inform, aggregates per-role
out/in centrality and classifies communication density over a time window.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		// The explorer owns the terminal, so it only logs to the file.
		logger, logCleanup = config.SetupLogger(cfg, cmd.Name() == "explore")
		slog.SetDefault(logger)

		collector = metrics.NewCollector()
		apiClient = client.New(cfg.APIURL, cfg.ClientTimeout).WithLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "analysis API base URL (overrides COMMNET_API_URL)")

	// Add subcommands
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exploreCmd)
}

// newSession opens an analysis session against the API client.
func newSession(p analysis.Pattern) *session.Controller {
	return session.New(apiClient, session.Options{
		Debounce: cfg.DensityDebounce,
		Pattern:  p,
		Logger:   logger,
		Metrics:  collector,
	})
}

// resolvePattern looks up a pattern by key or label. An empty selector
// falls back to the configured default.
func resolvePattern(selector string) (analysis.Pattern, error) {
	if selector == "" {
		return analysis.Resolve(cfg.DefaultPattern), nil
	}
	p, ok := analysis.Lookup(selector)
	if !ok {
		return analysis.Pattern{}, fmt.Errorf("unknown pattern %q (see 'commnet patterns')", selector)
	}
	return p, nil
}
