package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/config"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/usecase"
)

var prstatsCmd = &cobra.Command{
	Use:   "prstats",
	Short: "Aggregates pull request statistics across repositories",
	Long: `Aggregates pull request statistics (totals, weighted averages, per-author
and per-day histograms, recent activity) across a set of GitHub repositories
and outputs the combined result in JSON format. Repositories that fail to
fetch are excluded from the totals without aborting the aggregation.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		repos, _ := cmd.Flags().GetStringSlice("repos")
		days, _ := cmd.Flags().GetInt("days")
		asTable, _ := cmd.Flags().GetBool("summary")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.GitHubToken == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		result := aggregator.Aggregate(ctx, repos, days)

		var output any = result
		if asTable {
			output = usecase.BuildSummaryTable(result, repos)
		}
		if err := printJSON(output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(prstatsCmd)
	prstatsCmd.Flags().StringSliceP("repos", "r", nil, "Repositories to aggregate, as owner/name (repeatable)")
	prstatsCmd.Flags().IntP("days", "d", 30, "Trailing window in days")
	prstatsCmd.Flags().Bool("summary", false, "Output the per-repository summary table instead of the full result")
	prstatsCmd.MarkFlagRequired("repos")
}
