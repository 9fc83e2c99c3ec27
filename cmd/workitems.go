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

var workitemsCmd = &cobra.Command{
	Use:   "workitems",
	Short: "Reconciles Azure DevOps work items with their linked pull requests",
	Long: `Queries Azure DevOps work items for a date window, extracts every linked
pull request or commit from their relations (including opaque vstfs GitHub
links), resolves internal repository ids to real repository names, and
outputs the combined development-activity summary in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		days, _ := cmd.Flags().GetInt("days")
		itemType, _ := cmd.Flags().GetString("type")
		state, _ := cmd.Flags().GetString("state")
		areaPath, _ := cmd.Flags().GetString("area-path")
		mappingPath, _ := cmd.Flags().GetString("repo-map")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if areaPath == "" {
			areaPath = cfg.AzureDevOps.AreaPath
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
			Type:     itemType,
			State:    state,
			AreaPath: areaPath,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to analyze work items: %v\n", err)
			os.Exit(1)
		}

		if err := printJSON(summary); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workitemsCmd)
	workitemsCmd.Flags().IntP("days", "d", 30, "Trailing window in days")
	workitemsCmd.Flags().String("type", "", "Filter by work item type")
	workitemsCmd.Flags().String("state", "", "Filter by work item state")
	workitemsCmd.Flags().String("area-path", "", "Filter by area path (defaults to AZURE_DEVOPS_AREA_PATH)")
	workitemsCmd.Flags().String("repo-map", "", "YAML file mapping internal repository ids to owner/repo names")
}
