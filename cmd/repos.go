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

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists the GitHub repositories referenced by recent work items",
	Long: `Extracts the repositories referenced by recent Azure DevOps work item
relations and resolves their internal ids to real repository names. Entries
with "resolved": false are synthesized placeholders for display only.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		days, _ := cmd.Flags().GetInt("days")
		mappingPath, _ := cmd.Flags().GetString("repo-map")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.AzureDevOps.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		mapping, err := config.LoadRepositoryMapping(mappingPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load repository mapping: %v\n", err)
			os.Exit(1)
		}

		azureGateway := gateway.NewAzureDevOpsGateway(cfg.AzureDevOps, logger)
		reconciler := usecase.NewReconciler(azureGateway, logger)
		resolver := usecase.NewResolver(azureGateway, mapping, logger)
		analyzer := usecase.NewWorkItemAnalyzer(azureGateway, reconciler, resolver, logger)

		summary, err := analyzer.Analyze(ctx, gateway.WorkItemQuery{
			Days:     days,
			AreaPath: cfg.AzureDevOps.AreaPath,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to extract repositories: %v\n", err)
			os.Exit(1)
		}

		output := map[string]any{
			"repositories":       summary.ResolvedRepositories,
			"total_repositories": len(summary.ResolvedRepositories),
			"total_work_items":   summary.TotalWorkItems,
		}
		if err := printJSON(output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
	reposCmd.Flags().IntP("days", "d", 30, "Trailing window in days")
	reposCmd.Flags().String("repo-map", "", "YAML file mapping internal repository ids to owner/repo names")
}
