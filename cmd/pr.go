package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/config"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/parser"
)

var prCmd = &cobra.Command{
	Use:   "pr <owner/repo> <number>",
	Short: "Shows the details of a single GitHub pull request",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		owner, name, ok := parser.SplitRepoPath(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid repository %q: expected owner/name.\n", args[0])
			os.Exit(1)
		}
		number, err := strconv.Atoi(args[1])
		if err != nil || number <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid pull request number %q.\n", args[1])
			os.Exit(1)
		}

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

		pr, err := githubGateway.FetchPullRequestDetail(ctx, owner, name, number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch pull request: %v\n", err)
			os.Exit(1)
		}

		if err := printJSON(pr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(prCmd)
}
