// Package usecase contains the aggregation and reconciliation logic of the
// application.
package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/parser"
)

const (
	// recentPerRepository caps how many recent entries each repository may
	// contribute before the global sort.
	recentPerRepository = 5
	// recentGlobalCap bounds the combined recent activity feed.
	recentGlobalCap = 20
	// fetchConcurrency bounds parallel per-repository fetches.
	fetchConcurrency = 4
)

// Aggregator combines independent per-repository pull request summaries into
// one normalized result.
type Aggregator struct {
	fetcher gateway.PullRequestFetcher
	logger  *zap.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.PullRequestFetcher, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches the trailing windowDays-day summary of every valid
// "owner/name" entry and merges them. Malformed entries are skipped and
// per-repository fetch failures contribute nothing; the call itself never
// fails because a repository failed. An all-zero result with StatusEmpty is a
// valid return.
func (a *Aggregator) Aggregate(ctx context.Context, repositories []string, windowDays int) *domain.AggregatedResult {
	type target struct {
		full  string
		owner string
		name  string
	}

	var targets []target
	for _, repo := range repositories {
		owner, name, ok := parser.SplitRepoPath(repo)
		if !ok {
			a.logger.Warn("skipping malformed repository", zap.String("repository", repo))
			continue
		}
		targets = append(targets, target{full: repo, owner: owner, name: name})
	}

	summaries := make([]*domain.PullRequestSummary, len(targets))
	failed := make([]bool, len(targets))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(fetchConcurrency)
	for i, t := range targets {
		i, t := i, t
		eg.Go(func() error {
			summary, err := a.fetcher.FetchRepositorySummary(egCtx, t.owner, t.name, windowDays)
			if err != nil {
				// Failure isolation: the repository contributes zero and the
				// remaining repositories proceed.
				a.logger.Warn("repository fetch failed", zap.String("repository", t.full), zap.Error(err))
				failed[i] = true
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}
	// Goroutines never return errors; Wait only synchronizes them.
	_ = eg.Wait()

	result := &domain.AggregatedResult{
		ByAuthor:      map[string]int{},
		ByDay:         map[string]int{},
		Recent:        []domain.PullRequestRecord{},
		PerRepository: map[string]domain.RepositoryTotals{},
	}

	var weightedCommits, weightedAdditions, weightedDeletions, weightedChangedFiles float64
	totalForAverages := 0
	fetched := 0

	for i, t := range targets {
		if failed[i] {
			result.FailedRepositories = append(result.FailedRepositories, t.full)
			continue
		}
		summary := summaries[i]
		fetched++

		result.TotalPRs += summary.TotalPRs
		result.OpenPRs += summary.OpenPRs
		result.ClosedPRs += summary.ClosedPRs
		result.MergedPRs += summary.MergedPRs

		// Weighted accumulation: repositories with no pull requests must not
		// pull the combined averages toward their own averages.
		if summary.TotalPRs > 0 {
			weight := float64(summary.TotalPRs)
			weightedCommits += summary.AverageCommits * weight
			weightedAdditions += summary.AverageAdditions * weight
			weightedDeletions += summary.AverageDeletions * weight
			weightedChangedFiles += summary.AverageChangedFiles * weight
			totalForAverages += summary.TotalPRs
		}

		for author, count := range summary.ByAuthor {
			result.ByAuthor[author] += count
		}
		for day, count := range summary.ByDay {
			result.ByDay[day] += count
		}

		recent := summary.Recent
		if len(recent) > recentPerRepository {
			recent = recent[:recentPerRepository]
		}
		for _, pr := range recent {
			pr.Repository = t.full
			result.Recent = append(result.Recent, pr)
		}

		result.PerRepository[t.full] = domain.RepositoryTotals{
			TotalPRs:  summary.TotalPRs,
			OpenPRs:   summary.OpenPRs,
			ClosedPRs: summary.ClosedPRs,
			MergedPRs: summary.MergedPRs,
		}
	}

	if totalForAverages > 0 {
		result.AverageCommits = weightedCommits / float64(totalForAverages)
		result.AverageAdditions = weightedAdditions / float64(totalForAverages)
		result.AverageDeletions = weightedDeletions / float64(totalForAverages)
		result.AverageChangedFiles = weightedChangedFiles / float64(totalForAverages)
	}

	sort.SliceStable(result.Recent, func(i, j int) bool {
		return result.Recent[i].CreatedAt.After(result.Recent[j].CreatedAt)
	})
	if len(result.Recent) > recentGlobalCap {
		result.Recent = result.Recent[:recentGlobalCap]
	}

	switch {
	case fetched == 0:
		result.Status = domain.StatusEmpty
	case len(result.FailedRepositories) > 0:
		result.Status = domain.StatusPartial
	default:
		result.Status = domain.StatusSuccess
	}

	a.logger.Info("aggregation complete",
		zap.Int("requested", len(repositories)),
		zap.Int("fetched", fetched),
		zap.Int("total_prs", result.TotalPRs),
		zap.String("status", result.Status))
	return result
}

// BuildSummaryTable projects an AggregatedResult into the fixed-shape
// summary table: one row per requested repository in caller order, zeros for
// repositories with no data, plus a trailing TOTAL row.
func BuildSummaryTable(result *domain.AggregatedResult, repositories []string) domain.SummaryTable {
	table := domain.SummaryTable{
		Type:    "table",
		Headers: []string{"Repository", "Total PRs", "Open", "Closed", "Merged", "Merge Rate"},
	}

	for _, repo := range repositories {
		table.Rows = append(table.Rows, summaryRow(repo, result.PerRepository[repo]))
	}

	table.Rows = append(table.Rows, summaryRow("TOTAL", domain.RepositoryTotals{
		TotalPRs:  result.TotalPRs,
		OpenPRs:   result.OpenPRs,
		ClosedPRs: result.ClosedPRs,
		MergedPRs: result.MergedPRs,
	}))
	return table
}

func summaryRow(label string, totals domain.RepositoryTotals) []string {
	return []string{
		label,
		fmt.Sprintf("%d", totals.TotalPRs),
		fmt.Sprintf("%d", totals.OpenPRs),
		fmt.Sprintf("%d", totals.ClosedPRs),
		fmt.Sprintf("%d", totals.MergedPRs),
		mergeRate(totals.MergedPRs, totals.TotalPRs),
	}
}

// mergeRate formats merged/total as a percentage with one decimal place,
// degrading to "0%" when total is zero.
func mergeRate(merged, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(merged)/float64(total)*100)
}
