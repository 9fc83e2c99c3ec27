package domain

// WorkItemFeedEntry is one pull request or commit link flattened out of a
// work item for the recent activity feed.
type WorkItemFeedEntry struct {
	WorkItemID    int        `json:"work_item_id"`
	WorkItemTitle string     `json:"work_item_title"`
	CreatedAt     string     `json:"created_at"`
	Link          LinkRecord `json:"link"`
}

// WorkItemSummary is a pure projection over a set of reconciled work items:
// totals, histograms and the repositories their links touch.
type WorkItemSummary struct {
	TotalWorkItems       int                  `json:"total_work_items"`
	TotalPullRequests    int                  `json:"total_pull_requests"`
	TotalCommits         int                  `json:"total_commits"`
	TotalRepositories    int                  `json:"total_repositories"`
	WorkItemsWithLinks   int                  `json:"work_items_with_prs"`
	ByType               map[string]int       `json:"work_items_by_type"`
	ByState              map[string]int       `json:"work_items_by_state"`
	ByAssignee           map[string]int       `json:"work_items_by_assignee"`
	RepositoryBreakdown  map[string]int       `json:"repository_breakdown"`
	InvolvedRepositories []string             `json:"involved_repositories"`
	ResolvedRepositories []ResolvedRepository `json:"resolved_repositories"`
	RecentWorkItems      []WorkItem           `json:"recent_work_items"`
	RecentLinks          []WorkItemFeedEntry  `json:"recent_pull_requests"`
}
