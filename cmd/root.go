// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "analytics-dashboard",
	Short: "A CLI tool to aggregate cross-platform development activity.",
	Long: `analytics-dashboard aggregates pull request statistics across a set of
GitHub repositories and reconciles Azure DevOps work items with the pull
requests and commits they link to, resolving opaque internal repository ids
to real repository names.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the command logger: silent by default, development output
// to stderr when --verbose is set.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// printJSON marshals a result as indented JSON to standard output.
func printJSON(v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
