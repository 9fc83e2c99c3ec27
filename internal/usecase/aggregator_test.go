package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.PullRequestFetcher
// interface, simulating the GitHub gateway without real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepositorySummary(ctx context.Context, owner, name string, windowDays int) (*domain.PullRequestSummary, error) {
	args := m.Called(ctx, owner, name, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequestSummary), args.Error(1)
}

func (m *mockFetcher) FetchPullRequestDetail(ctx context.Context, owner, name string, number int) (*github.PullRequest, error) {
	args := m.Called(ctx, owner, name, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.PullRequest), args.Error(1)
}

func summaryFixture(total, open, closed, merged int, avgAdditions float64) *domain.PullRequestSummary {
	return &domain.PullRequestSummary{
		TotalPRs:         total,
		OpenPRs:          open,
		ClosedPRs:        closed,
		MergedPRs:        merged,
		AverageAdditions: avgAdditions,
		ByAuthor:         map[string]int{},
		ByDay:            map[string]int{},
	}
}

func TestAggregator_Aggregate_CombinesRepositories(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "web", 30).
		Return(summaryFixture(4, 1, 1, 2, 10), nil)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "api", 30).
		Return(summaryFixture(6, 2, 0, 4, 20), nil)

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), []string{"acme/web", "acme/api"}, 30)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 10, result.TotalPRs)
	assert.Equal(t, 3, result.OpenPRs)
	assert.Equal(t, 1, result.ClosedPRs)
	assert.Equal(t, 6, result.MergedPRs)
	// Weighted: (10*4 + 20*6) / 10 = 16.
	assert.InDelta(t, 16.0, result.AverageAdditions, 1e-9)

	assert.Equal(t, domain.RepositoryTotals{TotalPRs: 4, OpenPRs: 1, ClosedPRs: 1, MergedPRs: 2}, result.PerRepository["acme/web"])
	assert.Equal(t, domain.RepositoryTotals{TotalPRs: 6, OpenPRs: 2, ClosedPRs: 0, MergedPRs: 4}, result.PerRepository["acme/api"])
	fetcher.AssertExpectations(t)
}

func TestAggregator_Aggregate_WeightedAverageIgnoresEmptyRepositories(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "busy", 30).
		Return(summaryFixture(10, 0, 0, 0, 5), nil)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "idle", 30).
		Return(summaryFixture(0, 0, 0, 0, 999), nil)

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), []string{"acme/busy", "acme/idle"}, 30)

	assert.InDelta(t, 5.0, result.AverageAdditions, 1e-9)
}

func TestAggregator_Aggregate_SkipsMalformedRepositories(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "web", 30).
		Return(summaryFixture(4, 1, 1, 2, 10), nil)

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), []string{"not-a-repo", "acme/web", "a/b/c"}, 30)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 4, result.TotalPRs)
	assert.Len(t, result.PerRepository, 1)
	fetcher.AssertExpectations(t)
	fetcher.AssertNumberOfCalls(t, "FetchRepositorySummary", 1)
}

func TestAggregator_Aggregate_FailedRepositoryIsIsolated(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "web", 30).
		Return(nil, errors.New("github api error"))
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "api", 30).
		Return(summaryFixture(6, 2, 0, 4, 20), nil)

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), []string{"acme/web", "acme/api"}, 30)

	assert.Equal(t, domain.StatusPartial, result.Status)
	assert.Equal(t, 6, result.TotalPRs)
	assert.Equal(t, []string{"acme/web"}, result.FailedRepositories)
	assert.NotContains(t, result.PerRepository, "acme/web")
}

func TestAggregator_Aggregate_EmptyResults(t *testing.T) {
	testCases := []struct {
		name         string
		repositories []string
		setup        func(f *mockFetcher)
	}{
		{
			name:         "empty input list",
			repositories: nil,
			setup:        func(f *mockFetcher) {},
		},
		{
			name:         "only malformed entries",
			repositories: []string{"nope", "also//bad"},
			setup:        func(f *mockFetcher) {},
		},
		{
			name:         "every repository fails",
			repositories: []string{"acme/web"},
			setup: func(f *mockFetcher) {
				f.On("FetchRepositorySummary", mock.Anything, "acme", "web", 30).
					Return(nil, errors.New("boom"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			tc.setup(fetcher)

			aggregator := NewAggregator(fetcher, zap.NewNop())
			result := aggregator.Aggregate(context.Background(), tc.repositories, 30)

			// A zero-valued result is a valid return, not an error.
			assert.Equal(t, domain.StatusEmpty, result.Status)
			assert.Equal(t, 0, result.TotalPRs)
			assert.Empty(t, result.PerRepository)
			assert.Empty(t, result.Recent)
		})
	}
}

func TestAggregator_Aggregate_MergesHistograms(t *testing.T) {
	web := summaryFixture(3, 1, 1, 1, 0)
	web.ByAuthor = map[string]int{"alice": 2, "bob": 1}
	web.ByDay = map[string]int{"2026-08-01": 2, "2026-08-02": 1}
	api := summaryFixture(2, 1, 0, 1, 0)
	api.ByAuthor = map[string]int{"bob": 2}
	api.ByDay = map[string]int{"2026-08-02": 2}

	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "web", 7).Return(web, nil)
	fetcher.On("FetchRepositorySummary", mock.Anything, "acme", "api", 7).Return(api, nil)

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), []string{"acme/web", "acme/api"}, 7)

	assert.Equal(t, map[string]int{"alice": 2, "bob": 3}, result.ByAuthor)
	assert.Equal(t, map[string]int{"2026-08-01": 2, "2026-08-02": 3}, result.ByDay)
}

func TestAggregator_Aggregate_RecentFeedIsBoundedAndSorted(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fetcher := new(mockFetcher)

	// Five repositories, each offering more recent entries than the per-repo
	// cap allows.
	var repos []string
	for r := 0; r < 5; r++ {
		name := fmt.Sprintf("repo-%d", r)
		summary := summaryFixture(7, 0, 0, 0, 0)
		for i := 0; i < 7; i++ {
			summary.Recent = append(summary.Recent, domain.PullRequestRecord{
				Number:    r*100 + i,
				Title:     fmt.Sprintf("pr %d/%d", r, i),
				CreatedAt: base.Add(time.Duration(r*7+i) * time.Hour),
			})
		}
		fetcher.On("FetchRepositorySummary", mock.Anything, "acme", name, 30).Return(summary, nil)
		repos = append(repos, "acme/"+name)
	}

	aggregator := NewAggregator(fetcher, zap.NewNop())
	result := aggregator.Aggregate(context.Background(), repos, 30)

	assert.Len(t, result.Recent, 20)
	for i := 1; i < len(result.Recent); i++ {
		assert.False(t, result.Recent[i].CreatedAt.After(result.Recent[i-1].CreatedAt),
			"recent feed must be sorted by created_at descending")
	}
	for _, pr := range result.Recent {
		assert.NotEmpty(t, pr.Repository, "recent entries must carry their origin repository")
	}
}

func TestBuildSummaryTable(t *testing.T) {
	result := &domain.AggregatedResult{
		TotalPRs:  10,
		OpenPRs:   3,
		ClosedPRs: 1,
		MergedPRs: 6,
		PerRepository: map[string]domain.RepositoryTotals{
			"acme/web": {TotalPRs: 4, OpenPRs: 1, ClosedPRs: 1, MergedPRs: 2},
			"acme/api": {TotalPRs: 6, OpenPRs: 2, ClosedPRs: 0, MergedPRs: 4},
		},
	}

	table := BuildSummaryTable(result, []string{"acme/web", "acme/api", "not-a-repo"})

	assert.Equal(t, []string{"Repository", "Total PRs", "Open", "Closed", "Merged", "Merge Rate"}, table.Headers)
	assert.Len(t, table.Rows, 4)

	assert.Equal(t, []string{"acme/web", "4", "1", "1", "2", "50.0%"}, table.Rows[0])
	assert.Equal(t, []string{"acme/api", "6", "2", "0", "4", "66.7%"}, table.Rows[1])
	// Unknown rows degrade to zeros with the 0% guard, never a division error.
	assert.Equal(t, []string{"not-a-repo", "0", "0", "0", "0", "0%"}, table.Rows[2])
	assert.Equal(t, []string{"TOTAL", "10", "3", "1", "6", "60.0%"}, table.Rows[3])
}

func TestMergeRate_ZeroGuard(t *testing.T) {
	assert.Equal(t, "0%", mergeRate(0, 0))
	assert.Equal(t, "0%", mergeRate(5, 0))
	assert.Equal(t, "100.0%", mergeRate(3, 3))
	assert.Equal(t, "33.3%", mergeRate(1, 3))
}
