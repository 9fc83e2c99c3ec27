package domain

import "strings"

// CommitRefPrefix marks a LinkRecord reference id as a commit reference.
const CommitRefPrefix = "commit-"

// Relation is one raw relation record attached to a work item, before
// classification.
type Relation struct {
	Type       string         `json:"rel"`
	URL        string         `json:"url"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LinkDetail carries the optional enrichment fields of a link. All fields are
// empty when the enrichment fetch failed or was not attempted.
type LinkDetail struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedBy    string `json:"created_by,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	SourceBranch string `json:"source_branch,omitempty"`
	TargetBranch string `json:"target_branch,omitempty"`
	MergeStatus  string `json:"merge_status,omitempty"`
}

// LinkRecord is a pull request or commit reference extracted from a work
// item relation. ReferenceID is a PR number, or "commit-<shorthash>" for
// commit links.
type LinkRecord struct {
	RelationType string        `json:"relation_type"`
	RawURL       string        `json:"url"`
	Repository   RepositoryRef `json:"repository"`
	ReferenceID  string        `json:"reference_id"`
	CommitID     string        `json:"commit_id,omitempty"`
	Platform     Platform      `json:"platform"`
	Detail       LinkDetail    `json:"detail,omitempty"`
}

// IsCommit reports whether the link references a commit rather than a pull
// request. True iff the reference id carries the commit prefix.
func (l LinkRecord) IsCommit() bool {
	return strings.HasPrefix(l.ReferenceID, CommitRefPrefix)
}

// WorkItem is a tracked unit of project work fetched fresh per query; the
// core never persists it.
type WorkItem struct {
	ID              int          `json:"id"`
	Type            string       `json:"type"`
	State           string       `json:"state"`
	Title           string       `json:"title"`
	CreatedAt       string       `json:"created_at"`
	ChangedAt       string       `json:"changed_at"`
	AreaPath        string       `json:"area_path"`
	Assignee        string       `json:"assignee"`
	AssociatedLinks []LinkRecord `json:"associated_links"`
}
