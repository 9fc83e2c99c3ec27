// Package config loads runtime configuration from the environment and from
// optional files. Azure DevOps settings are an immutable value threaded
// through each call; nothing in this package is mutated after Load.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// AzureDevOps holds the connection settings for one Azure DevOps project
// scope.
type AzureDevOps struct {
	PAT          string
	Organization string
	Project      string
	AreaPath     string
}

// Config is the full runtime configuration of the dashboard CLI.
type Config struct {
	GitHubToken string
	AzureDevOps AzureDevOps
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing .env file is not an error; missing credentials are
// validated by the commands that need them.
func Load() (*Config, error) {
	// godotenv.Load only fills variables that are not already set, so real
	// environment values win over .env entries.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return &Config{
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		AzureDevOps: AzureDevOps{
			PAT:          os.Getenv("AZURE_DEVOPS_PAT"),
			Organization: os.Getenv("AZURE_DEVOPS_ORG"),
			Project:      os.Getenv("AZURE_DEVOPS_PROJECT"),
			AreaPath:     os.Getenv("AZURE_DEVOPS_AREA_PATH"),
		},
	}, nil
}

// Validate checks that the Azure DevOps scope carries everything needed to
// talk to the API.
func (a AzureDevOps) Validate() error {
	if a.PAT == "" {
		return fmt.Errorf("AZURE_DEVOPS_PAT is not set")
	}
	if a.Organization == "" || a.Project == "" {
		return fmt.Errorf("AZURE_DEVOPS_ORG and AZURE_DEVOPS_PROJECT must be set")
	}
	return nil
}
