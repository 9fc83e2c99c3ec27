package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/parser"
)

const (
	// relationBatchSize bounds how many per-item relation fetches run
	// between pauses.
	relationBatchSize = 10
	// relationBatchPause is the delay between relation fetch batches.
	relationBatchPause = 100 * time.Millisecond
)

// ReconcileResult reports the outcome of one reconciliation pass.
type ReconcileResult struct {
	Items          []domain.WorkItem `json:"items"`
	Processed      int               `json:"processed"`
	ItemsWithLinks int               `json:"items_with_links"`
	TotalLinks     int               `json:"total_links"`
}

// Reconciler resolves the raw relation lists of work items into normalized
// pull request and commit links.
type Reconciler struct {
	source    gateway.WorkItemSource
	logger    *zap.Logger
	batchSize int
	pause     time.Duration
}

// NewReconciler creates a Reconciler with the default batch settings.
func NewReconciler(source gateway.WorkItemSource, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		source:    source,
		logger:    logger,
		batchSize: relationBatchSize,
		pause:     relationBatchPause,
	}
}

// Reconcile fetches each work item's relations, classifies and extracts
// every pull request or commit reference, and populates AssociatedLinks.
// Relation fetches run in fixed-size batches with a short pause between
// batches; individual failures leave the item without links and the pass
// continues. The only error is context cancellation.
func (r *Reconciler) Reconcile(ctx context.Context, items []domain.WorkItem) (*ReconcileResult, error) {
	result := &ReconcileResult{Items: items}

	r.logger.Info("reconciling work item relations",
		zap.Int("work_items", len(items)),
		zap.Int("batch_size", r.batchSize))

	for start := 0; start < len(items); start += r.batchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.pause):
			}
		}

		end := start + r.batchSize
		if end > len(items) {
			end = len(items)
		}

		for i := start; i < end; i++ {
			item := &result.Items[i]
			item.AssociatedLinks = []domain.LinkRecord{}

			relations, err := r.source.FetchRelations(ctx, item.ID)
			if err != nil {
				r.logger.Debug("relation fetch failed", zap.Int("work_item", item.ID), zap.Error(err))
				continue
			}
			result.Processed++

			for _, relation := range relations {
				if !parser.IsCandidate(relation.Type, relation.URL) {
					continue
				}
				link := parser.ParseLink(relation.Type, relation.URL)
				r.enrich(ctx, &link)
				item.AssociatedLinks = append(item.AssociatedLinks, link)
			}

			if len(item.AssociatedLinks) > 0 {
				result.ItemsWithLinks++
				result.TotalLinks += len(item.AssociatedLinks)
			}
		}
	}

	r.logger.Info("reconciliation complete",
		zap.Int("processed", result.Processed),
		zap.Int("items_with_links", result.ItemsWithLinks),
		zap.Int("total_links", result.TotalLinks))
	return result, nil
}

// enrich adds title/author/status detail to Azure DevOps pull request links
// and to commit links. A failed detail fetch leaves the link as extracted; it
// is never dropped.
func (r *Reconciler) enrich(ctx context.Context, link *domain.LinkRecord) {
	switch {
	case link.IsCommit() && link.CommitID != "" && link.Repository.InternalID != "":
		detail, err := r.source.FetchCommitDetail(ctx, link.Repository.InternalID, link.CommitID)
		if err != nil {
			r.logger.Debug("commit enrichment failed", zap.String("url", link.RawURL), zap.Error(err))
			return
		}
		link.Detail = *detail
	case link.Platform == domain.PlatformAzureDevOps && link.Repository.InternalID != "" && link.ReferenceID != "unknown":
		detail, err := r.source.FetchPullRequestDetail(ctx, link.Repository.InternalID, link.ReferenceID)
		if err != nil {
			r.logger.Debug("pull request enrichment failed", zap.String("url", link.RawURL), zap.Error(err))
			return
		}
		link.Detail = *detail
	}
}
