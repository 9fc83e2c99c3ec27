// Package gateway provides gateways to the GitHub and Azure DevOps APIs,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/montanaflynn/stats"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
)

// recentFeedSize caps the per-repository recent activity feed returned by a
// summary fetch.
const recentFeedSize = 10

// PullRequestFetcher defines the behavior of a gateway that produces
// per-repository pull request summaries.
type PullRequestFetcher interface {
	FetchRepositorySummary(ctx context.Context, owner, name string, windowDays int) (*domain.PullRequestSummary, error)
	FetchPullRequestDetail(ctx context.Context, owner, name string, number int) (*github.PullRequest, error)
}

// GitHubGateway is the concrete implementation of PullRequestFetcher backed
// by the GitHub REST and GraphQL APIs.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// prSearchQuery pages through the pull requests of one repository created
// within the window, carrying everything a summary needs in a single search.
type prSearchQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename    string `graphql:"__typename"`
				PullRequest struct {
					Number       int
					Title        string
					State        githubv4.PullRequestState
					Merged       bool
					CreatedAt    githubv4.DateTime
					Additions    int
					Deletions    int
					ChangedFiles int
					Commits      struct {
						TotalCount int
					}
					Author struct {
						Login string
					}
				} `graphql:"... on PullRequest"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100, after: $cursor)"`
}

// NewGitHubGateway creates a GitHubGateway with a rate-limit-aware,
// token-authenticated HTTP client.
func NewGitHubGateway(token string, logger *zap.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchRepositorySummary fetches all pull requests of owner/name created in
// the trailing windowDays-day window and reduces them to a summary.
func (g *GitHubGateway) FetchRepositorySummary(ctx context.Context, owner, name string, windowDays int) (*domain.PullRequestSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays).Format("2006-01-02")
	query := fmt.Sprintf("repo:%s/%s is:pr created:>=%s sort:created-desc", owner, name, since)
	g.logger.Debug("fetching pull request window", zap.String("repo", owner+"/"+name), zap.String("query", query))

	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"cursor": (*githubv4.String)(nil),
	}

	summary := &domain.PullRequestSummary{
		ByAuthor: map[string]int{},
		ByDay:    map[string]int{},
		Recent:   []domain.PullRequestRecord{},
	}
	var commits, additions, deletions, changedFiles []float64

	for {
		var q prSearchQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to search pull requests for %s/%s: %w", owner, name, err)
		}

		for _, edge := range q.Search.Edges {
			pr := edge.Node.PullRequest
			if edge.Node.Typename != "PullRequest" {
				continue
			}

			summary.TotalPRs++
			switch pr.State {
			case githubv4.PullRequestStateOpen:
				summary.OpenPRs++
			default:
				// Merged PRs count as closed too, matching the REST state model.
				summary.ClosedPRs++
			}
			if pr.Merged {
				summary.MergedPRs++
			}

			commits = append(commits, float64(pr.Commits.TotalCount))
			additions = append(additions, float64(pr.Additions))
			deletions = append(deletions, float64(pr.Deletions))
			changedFiles = append(changedFiles, float64(pr.ChangedFiles))

			author := pr.Author.Login
			if author == "" {
				author = "unknown"
			}
			summary.ByAuthor[author]++
			summary.ByDay[pr.CreatedAt.Time.UTC().Format("2006-01-02")]++

			if len(summary.Recent) < recentFeedSize {
				summary.Recent = append(summary.Recent, domain.PullRequestRecord{
					Number:    pr.Number,
					Title:     pr.Title,
					Author:    author,
					State:     string(pr.State),
					Merged:    pr.Merged,
					CreatedAt: pr.CreatedAt.Time,
				})
			}
		}

		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Debug("fetching next page of pull requests", zap.String("repo", owner+"/"+name))
	}

	summary.AverageCommits = meanOrZero(commits)
	summary.AverageAdditions = meanOrZero(additions)
	summary.AverageDeletions = meanOrZero(deletions)
	summary.AverageChangedFiles = meanOrZero(changedFiles)

	g.logger.Debug("fetched pull request summary",
		zap.String("repo", owner+"/"+name),
		zap.Int("total", summary.TotalPRs))
	return summary, nil
}

// FetchPullRequestDetail fetches one pull request via the REST API.
func (g *GitHubGateway) FetchPullRequestDetail(ctx context.Context, owner, name string, number int) (*github.PullRequest, error) {
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s/%s#%d: %w", owner, name, number, err)
	}
	return pr, nil
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
