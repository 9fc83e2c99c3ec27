package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
)

// recentWorkItemCap bounds the recent work item and link feeds.
const recentWorkItemCap = 10

// BuildWorkItemSummary reduces a set of reconciled work items to a summary.
// It is a pure projection; repository resolution is merged in separately.
func BuildWorkItemSummary(items []domain.WorkItem) *domain.WorkItemSummary {
	summary := &domain.WorkItemSummary{
		TotalWorkItems:       len(items),
		ByType:               map[string]int{},
		ByState:              map[string]int{},
		ByAssignee:           map[string]int{},
		RepositoryBreakdown:  map[string]int{},
		InvolvedRepositories: []string{},
		ResolvedRepositories: []domain.ResolvedRepository{},
		RecentWorkItems:      []domain.WorkItem{},
		RecentLinks:          []domain.WorkItemFeedEntry{},
	}

	involved := map[string]struct{}{}

	for _, item := range items {
		summary.ByType[orUnknown(item.Type)]++
		summary.ByState[orUnknown(item.State)]++
		summary.ByAssignee[orUnassigned(item.Assignee)]++

		if len(item.AssociatedLinks) > 0 {
			summary.WorkItemsWithLinks++
		}

		for _, link := range item.AssociatedLinks {
			if link.IsCommit() {
				summary.TotalCommits++
			} else {
				summary.TotalPullRequests++
			}
			summary.RepositoryBreakdown[link.Repository.Name]++

			// Links whose repository path degraded to the raw URL identify
			// nothing; keep them out of the repository set.
			if link.Repository.FullPath != "" && link.Repository.FullPath != link.RawURL {
				involved[link.Repository.FullPath] = struct{}{}
			}

			summary.RecentLinks = append(summary.RecentLinks, domain.WorkItemFeedEntry{
				WorkItemID:    item.ID,
				WorkItemTitle: item.Title,
				CreatedAt:     latestDate(item),
				Link:          link,
			})
		}
	}

	for path := range involved {
		summary.InvolvedRepositories = append(summary.InvolvedRepositories, path)
	}
	sort.Strings(summary.InvolvedRepositories)
	summary.TotalRepositories = len(summary.InvolvedRepositories)

	recentItems := make([]domain.WorkItem, len(items))
	copy(recentItems, items)
	sort.SliceStable(recentItems, func(i, j int) bool {
		return recentItems[i].CreatedAt > recentItems[j].CreatedAt
	})
	if len(recentItems) > recentWorkItemCap {
		recentItems = recentItems[:recentWorkItemCap]
	}
	summary.RecentWorkItems = recentItems

	sort.SliceStable(summary.RecentLinks, func(i, j int) bool {
		return summary.RecentLinks[i].CreatedAt > summary.RecentLinks[j].CreatedAt
	})
	if len(summary.RecentLinks) > recentWorkItemCap {
		summary.RecentLinks = summary.RecentLinks[:recentWorkItemCap]
	}

	return summary
}

// WorkItemAnalyzer ties the work item query, the reconciler and the resolver
// into the full development-activity view.
type WorkItemAnalyzer struct {
	source     gateway.WorkItemSource
	reconciler *Reconciler
	resolver   *Resolver
	logger     *zap.Logger
}

// NewWorkItemAnalyzer creates a WorkItemAnalyzer.
func NewWorkItemAnalyzer(source gateway.WorkItemSource, reconciler *Reconciler, resolver *Resolver, logger *zap.Logger) *WorkItemAnalyzer {
	return &WorkItemAnalyzer{
		source:     source,
		reconciler: reconciler,
		resolver:   resolver,
		logger:     logger,
	}
}

// Analyze queries work items for the given scope, reconciles their links and
// resolves every internal repository id observed. No matching work items is a
// valid empty summary, not an error; only a failed query surfaces as one.
func (a *WorkItemAnalyzer) Analyze(ctx context.Context, query gateway.WorkItemQuery) (*domain.WorkItemSummary, error) {
	items, err := a.source.QueryWorkItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query work items: %w", err)
	}
	if len(items) == 0 {
		a.logger.Info("no work items in scope", zap.Int("days", query.Days))
		return BuildWorkItemSummary(nil), nil
	}

	reconciled, err := a.reconciler.Reconcile(ctx, items)
	if err != nil {
		return nil, err
	}

	summary := BuildWorkItemSummary(reconciled.Items)
	summary.ResolvedRepositories = a.resolver.ResolveAll(ctx, summary.InvolvedRepositories, summary.RepositoryBreakdown)
	return summary, nil
}

// latestDate picks the work item date stamped on its feed entries.
func latestDate(item domain.WorkItem) string {
	if item.ChangedAt != "" {
		return item.ChangedAt
	}
	return item.CreatedAt
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orUnassigned(s string) string {
	if s == "" {
		return "Unassigned"
	}
	return s
}
