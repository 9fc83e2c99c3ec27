package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        zap.NewNop(),
	}

	return gateway, server
}

func searchPage(hasNext bool, cursor string, nodes ...string) string {
	edges := make([]string, len(nodes))
	for i, n := range nodes {
		edges[i] = fmt.Sprintf(`{"node": %s}`, n)
	}
	return fmt.Sprintf(`{"data": {"search": {
		"pageInfo": {"hasNextPage": %t, "endCursor": %q},
		"edges": [%s]
	}}}`, hasNext, cursor, strings.Join(edges, ","))
}

func prNode(number int, state string, merged bool, author, createdAt string, additions int) string {
	return fmt.Sprintf(`{
		"__typename": "PullRequest",
		"number": %d,
		"title": "PR %d",
		"state": %q,
		"merged": %t,
		"createdAt": %q,
		"additions": %d,
		"deletions": 2,
		"changedFiles": 3,
		"commits": {"totalCount": 4},
		"author": {"login": %q}
	}`, number, number, state, merged, createdAt, additions, author)
}

func TestGitHubGateway_FetchRepositorySummary(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, req.Variables["query"], "repo:acme/web is:pr created:>=")

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, searchPage(false, "",
			prNode(3, "OPEN", false, "alice", "2024-05-03T10:00:00Z", 10),
			prNode(2, "MERGED", true, "bob", "2024-05-02T10:00:00Z", 30),
			prNode(1, "CLOSED", false, "", "2024-05-02T09:00:00Z", 20),
		))
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	summary, err := gateway.FetchRepositorySummary(context.Background(), "acme", "web", 30)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPRs)
	assert.Equal(t, 1, summary.OpenPRs)
	assert.Equal(t, 2, summary.ClosedPRs)
	assert.Equal(t, 1, summary.MergedPRs)
	assert.Equal(t, 20.0, summary.AverageAdditions)
	assert.Equal(t, 4.0, summary.AverageCommits)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 1, "unknown": 1}, summary.ByAuthor)
	assert.Equal(t, map[string]int{"2024-05-03": 1, "2024-05-02": 2}, summary.ByDay)
	require.Len(t, summary.Recent, 3)
	assert.Equal(t, 3, summary.Recent[0].Number)
	assert.Equal(t, "unknown", summary.Recent[2].Author)
}

func TestGitHubGateway_FetchRepositorySummary_Paginates(t *testing.T) {
	page := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		page++
		w.WriteHeader(http.StatusOK)
		if page == 1 {
			fmt.Fprint(w, searchPage(true, "cursor-1",
				prNode(2, "OPEN", false, "alice", "2024-05-02T10:00:00Z", 10),
			))
			return
		}
		fmt.Fprint(w, searchPage(false, "",
			prNode(1, "MERGED", true, "alice", "2024-05-01T10:00:00Z", 30),
		))
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	summary, err := gateway.FetchRepositorySummary(context.Background(), "acme", "web", 30)

	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 2, summary.TotalPRs)
	assert.Equal(t, 20.0, summary.AverageAdditions)
}

func TestGitHubGateway_FetchRepositorySummary_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "Internal Server Error"}`)
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	_, err := gateway.FetchRepositorySummary(context.Background(), "acme", "web", 30)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search pull requests for acme/web")
}

func TestGitHubGateway_FetchPullRequestDetail(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.String(), "/repos/acme/web/pulls/42")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"number": 42, "title": "Fix login", "state": "closed", "merged": true}`)
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	pr, err := gateway.FetchPullRequestDetail(context.Background(), "acme", "web", 42)

	require.NoError(t, err)
	assert.Equal(t, 42, pr.GetNumber())
	assert.Equal(t, "Fix login", pr.GetTitle())
	assert.True(t, pr.GetMerged())
}

func TestGitHubGateway_FetchPullRequestDetail_NotFound(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	_, err := gateway.FetchPullRequestDetail(context.Background(), "acme", "web", 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch pull request acme/web#42")
}
