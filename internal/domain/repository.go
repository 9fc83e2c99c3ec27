// Package domain contains the core data structures shared by the
// aggregation and reconciliation logic.
package domain

// Platform identifies the hosting platform a repository or link belongs to.
type Platform string

const (
	PlatformGitHub      Platform = "GitHub"
	PlatformAzureDevOps Platform = "Azure DevOps"
	PlatformUnknown     Platform = "Unknown"
)

// RepositoryRef identifies a code repository. FullPath is the canonical
// "owner/name" string used as the dedup key downstream; for repositories that
// arrive as opaque internal ids it takes the form "GitHub/{internal-id}".
type RepositoryRef struct {
	Platform   Platform `json:"platform"`
	Owner      string   `json:"owner,omitempty"`
	Name       string   `json:"name"`
	InternalID string   `json:"internal_id,omitempty"`
	FullPath   string   `json:"full_path"`
}

// ResolvedRepository is the output of internal-id resolution. Resolved is
// true only when the name came from an authoritative source or the static
// mapping table; a synthesized placeholder must never be treated as a real
// repository for any external action.
type ResolvedRepository struct {
	RepositoryID string `json:"repository_id"`
	GitHubRepo   string `json:"github_repo"`
	DisplayName  string `json:"display_name"`
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	RemoteURL    string `json:"remote_url,omitempty"`
	PRCount      int    `json:"pr_count"`
	FullPath     string `json:"full_path"`
	Resolved     bool   `json:"resolved"`
}
