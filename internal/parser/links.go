// Package parser classifies work item relations and extracts repository and
// pull request references from the URL shapes used by GitHub and Azure
// DevOps, including the opaque vstfs:/// artifact-link scheme.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
)

// shortIDLen is the truncation used for display names and breakdown keys of
// opaque internal repository ids.
const shortIDLen = 8

var (
	githubPRPattern     = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)`)
	vstfsPRPattern      = regexp.MustCompile(`vstfs:///GitHub/PullRequest/([^%]+)%2f(\d+)`)
	vstfsCommitPattern  = regexp.MustCompile(`vstfs:///GitHub/Commit/([^%]+)%2f([a-f0-9]+)`)
	azureGitPRPattern   = regexp.MustCompile(`(?i)/_git/([^/]+)/pullrequest/([^/?]+)`)
	azureAPIPRPattern   = regexp.MustCompile(`(?i)/repositories/([^/]+)/pullrequests/([^/?]+)`)
	githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)`)
)

// IsCandidate reports whether a relation looks like a pull request or commit
// link. relType is matched lower-cased; anything not matching is discarded by
// the reconciler.
func IsCandidate(relType, url string) bool {
	rel := strings.ToLower(relType)
	lower := strings.ToLower(url)

	switch {
	case rel == "artifactlink":
		return true
	case strings.Contains(rel, "pullrequest"):
		return true
	case strings.Contains(rel, "development") && strings.Contains(rel, "work"):
		return true
	case strings.Contains(lower, "github.com") && strings.Contains(url, "pull/"):
		return true
	case strings.Contains(lower, "_git/") && strings.Contains(lower, "pullrequest"):
		return true
	case strings.Contains(lower, "repositories/") && strings.Contains(lower, "pullrequests"):
		return true
	case rel == "hyperlink":
		return strings.Contains(lower, "pull/") ||
			strings.Contains(lower, "pr/") ||
			strings.Contains(lower, "pullrequest")
	}
	return false
}

// ParseLink extracts the repository reference, reference id and platform from
// a candidate URL. Sub-patterns are tried in a fixed precedence order; when
// none matches, the result degrades to the raw URL as the repository path
// with an "unknown" reference id rather than failing.
func ParseLink(relType, url string) domain.LinkRecord {
	rec := domain.LinkRecord{
		RelationType: strings.ToLower(relType),
		RawURL:       url,
	}

	if repo, ref, commitID, platform, ok := extractRef(url); ok {
		rec.Repository = repo
		rec.ReferenceID = ref
		rec.CommitID = commitID
		rec.Platform = platform
		return rec
	}

	rec.Repository = domain.RepositoryRef{
		Platform: domain.PlatformUnknown,
		Name:     url,
		FullPath: url,
	}
	rec.ReferenceID = "unknown"
	rec.Platform = domain.PlatformUnknown
	return rec
}

func extractRef(url string) (repo domain.RepositoryRef, ref, commitID string, platform domain.Platform, ok bool) {
	if m := githubPRPattern.FindStringSubmatch(url); m != nil {
		owner, name, number := m[1], m[2], m[3]
		return domain.RepositoryRef{
			Platform: domain.PlatformGitHub,
			Owner:    owner,
			Name:     name,
			FullPath: owner + "/" + name,
		}, number, "", domain.PlatformGitHub, true
	}

	if m := vstfsPRPattern.FindStringSubmatch(url); m != nil {
		repoID, number := m[1], m[2]
		return internalGitHubRef(repoID), number, "", domain.PlatformGitHub, true
	}

	if m := vstfsCommitPattern.FindStringSubmatch(url); m != nil {
		repoID, hash := m[1], m[2]
		return internalGitHubRef(repoID), domain.CommitRefPrefix + ShortID(hash), hash, domain.PlatformGitHub, true
	}

	if m := azureGitPRPattern.FindStringSubmatch(url); m != nil {
		return azureRef(m[1]), m[2], "", domain.PlatformAzureDevOps, true
	}

	if m := azureAPIPRPattern.FindStringSubmatch(url); m != nil {
		return azureRef(m[1]), m[2], "", domain.PlatformAzureDevOps, true
	}

	return domain.RepositoryRef{}, "", "", domain.PlatformUnknown, false
}

func internalGitHubRef(repoID string) domain.RepositoryRef {
	return domain.RepositoryRef{
		Platform:   domain.PlatformGitHub,
		Name:       fmt.Sprintf("GitHub-%s", ShortID(repoID)),
		InternalID: repoID,
		FullPath:   "GitHub/" + repoID,
	}
}

func azureRef(name string) domain.RepositoryRef {
	return domain.RepositoryRef{
		Platform:   domain.PlatformAzureDevOps,
		Name:       name,
		InternalID: name,
		FullPath:   name,
	}
}

// ShortID truncates an opaque internal id to its display form.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// SplitRepoPath splits an "owner/name" string into its two segments. It
// returns false for anything that does not split into exactly two non-empty
// parts.
func SplitRepoPath(repo string) (owner, name string, ok bool) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// GitHubRepoFromRemote parses an "owner/repo" pair out of a git remote URL,
// accepting both https and ssh forms.
func GitHubRepoFromRemote(remoteURL string) (owner, name string, ok bool) {
	if !strings.Contains(strings.ToLower(remoteURL), "github.com") {
		return "", "", false
	}
	m := githubRemotePattern.FindStringSubmatch(remoteURL)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
