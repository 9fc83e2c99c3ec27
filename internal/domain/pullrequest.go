package domain

import "time"

// PullRequestRecord is a single pull request as it appears in the recent
// activity feed.
type PullRequestRecord struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	State      string    `json:"state"`
	Merged     bool      `json:"merged"`
	CreatedAt  time.Time `json:"created_at"`
	Repository string    `json:"repository,omitempty"`
}

// PullRequestSummary holds the pull request statistics of one repository for
// a trailing time window. The average_* metrics are already averaged over
// that repository's own pull requests.
type PullRequestSummary struct {
	TotalPRs            int                 `json:"total_prs"`
	OpenPRs             int                 `json:"open_prs"`
	ClosedPRs           int                 `json:"closed_prs"`
	MergedPRs           int                 `json:"merged_prs"`
	AverageCommits      float64             `json:"average_commits"`
	AverageAdditions    float64             `json:"average_additions"`
	AverageDeletions    float64             `json:"average_deletions"`
	AverageChangedFiles float64             `json:"average_changed_files"`
	ByAuthor            map[string]int      `json:"prs_by_author"`
	ByDay               map[string]int      `json:"prs_by_day"`
	Recent              []PullRequestRecord `json:"recent_prs"`
}

// RepositoryTotals is the per-repository slice of an AggregatedResult, kept
// for drill-down display.
type RepositoryTotals struct {
	TotalPRs  int `json:"total_prs"`
	OpenPRs   int `json:"open_prs"`
	ClosedPRs int `json:"closed_prs"`
	MergedPRs int `json:"merged_prs"`
}

// Aggregation status values. A zero-valued result with StatusEmpty is a valid
// return, not an error; callers that need to tell "ran with zero data" from
// "nothing could be fetched" check this field.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusEmpty   = "empty"
)

// AggregatedResult combines the summaries of several repositories. Every
// numeric total equals the sum of the per-repository values that contributed
// without error; failed repositories are listed but contribute nothing.
type AggregatedResult struct {
	Status              string                      `json:"status"`
	TotalPRs            int                         `json:"total_prs"`
	OpenPRs             int                         `json:"open_prs"`
	ClosedPRs           int                         `json:"closed_prs"`
	MergedPRs           int                         `json:"merged_prs"`
	AverageCommits      float64                     `json:"average_commits"`
	AverageAdditions    float64                     `json:"average_additions"`
	AverageDeletions    float64                     `json:"average_deletions"`
	AverageChangedFiles float64                     `json:"average_changed_files"`
	ByAuthor            map[string]int              `json:"prs_by_author"`
	ByDay               map[string]int              `json:"prs_by_day"`
	Recent              []PullRequestRecord         `json:"recent_prs"`
	PerRepository       map[string]RepositoryTotals `json:"repositories"`
	FailedRepositories  []string                    `json:"failed_repositories,omitempty"`
}

// SummaryTable is the fixed-shape table projection of an AggregatedResult:
// one row per requested repository plus a trailing TOTAL row.
type SummaryTable struct {
	Type    string     `json:"type"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
